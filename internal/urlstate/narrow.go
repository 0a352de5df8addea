package urlstate

import (
	"encoding/json"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/halfsies/internal/models"
)

// maxIndex bounds decoded person indexes so they always fit an int.
const maxIndex = math.MaxInt32

func narrowPeople(v *structpb.Value) ([]string, bool) {
	list := v.GetListValue()
	if list == nil {
		return []string{}, false
	}
	people := make([]string, 0, len(list.Values))
	for _, item := range list.Values {
		name, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return []string{}, false
		}
		people = append(people, name.StringValue)
	}
	return people, true
}

func narrowExpenses(v *structpb.Value) ([]models.Expense, bool) {
	list := v.GetListValue()
	if list == nil {
		return []models.Expense{}, false
	}
	expenses := make([]models.Expense, 0, len(list.Values))
	for _, item := range list.Values {
		e, ok := narrowExpense(item)
		if !ok {
			return []models.Expense{}, false
		}
		expenses = append(expenses, e)
	}
	return expenses, true
}

// narrowExpense requires pb; n, i, a and s may be missing.
func narrowExpense(v *structpb.Value) (models.Expense, bool) {
	var e models.Expense
	obj := v.GetStructValue()
	if obj == nil {
		return e, false
	}

	pb, present := obj.Fields["pb"]
	if !present {
		return e, false
	}
	idx, ok := asIndex(pb)
	if !ok {
		return e, false
	}
	e.PaidBy = idx

	for key, field := range obj.Fields {
		switch key {
		case "pb":
			// read above
		case "n":
			s, ok := field.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return e, false
			}
			e.Name = s.StringValue
		case "i":
			list := field.GetListValue()
			if list == nil {
				return e, false
			}
			e.Participants = make([]int, 0, len(list.Values))
			for _, p := range list.Values {
				idx, ok := asIndex(p)
				if !ok {
					return e, false
				}
				e.Participants = append(e.Participants, idx)
			}
		case "a":
			n, ok := field.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return e, false
			}
			e.Amount = n.NumberValue
		case "s":
			if _, isNull := field.GetKind().(*structpb.Value_NullValue); isNull {
				continue
			}
			list := field.GetListValue()
			if list == nil {
				return e, false
			}
			e.Shares = make([]float64, 0, len(list.Values))
			for _, s := range list.Values {
				n, ok := s.GetKind().(*structpb.Value_NumberValue)
				if !ok {
					return e, false
				}
				e.Shares = append(e.Shares, n.NumberValue)
			}
		default:
			raw, err := json.Marshal(field.AsInterface())
			if err != nil {
				return e, false
			}
			if e.Extra == nil {
				e.Extra = make(map[string]json.RawMessage)
			}
			e.Extra[key] = raw
		}
	}
	return e, true
}

func asIndex(v *structpb.Value) (int, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := n.NumberValue
	if f < 0 || f > maxIndex || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
