package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/halfsies/internal/models"
)

var tokenAlphabet = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// percentEncode mirrors encodeURIComponent, the escaping used by legacy links.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func mustValue(t *testing.T, v any) *structpb.Value {
	t.Helper()
	pv, err := structpb.NewValue(v)
	require.NoError(t, err)
	return pv
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"simple array", []any{"Alice", "Bob", "Charlie"}},
		{"empty array", []any{}},
		{"empty string", ""},
		{"special characters", []any{"Alice O'Brien", "Bob & Charlie", "Café / Restaurant"}},
		{"non-ascii", []any{"Zoë", "東京", "🍕"}},
		{"nested objects", []any{
			map[string]any{"n": "Fuel", "pb": 0.0, "i": []any{0.0, 1.0}, "a": 500.0},
			map[string]any{"n": "Food", "pb": 1.0, "i": []any{0.0, 1.0, 2.0}, "a": 1200.0, "s": []any{33.0, 33.0, 34.0}},
		}},
		{"scalars", map[string]any{"t": true, "f": false, "z": nil, "x": 12.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Encode(tt.value)
			require.NoError(t, err)
			assert.Regexp(t, tokenAlphabet, token)
			for _, c := range []string{"+", "/", "=", "%"} {
				assert.NotContains(t, token, c)
			}

			got := Decode(token)
			want := mustValue(t, tt.value)
			assert.True(t, proto.Equal(want, got), "decoded %v, want %v", got, want)
		})
	}
}

func TestEncodeExpensesDecodesIntoModels(t *testing.T) {
	expenses := []models.Expense{
		{Name: "Fuel", PaidBy: 0, Participants: []int{0, 1}, Amount: 500},
		{Name: "Food", PaidBy: 1, Participants: []int{0, 1, 2}, Amount: 1200, Shares: []float64{33, 33, 34}},
	}

	token, err := Encode(expenses)
	require.NoError(t, err)

	var got []models.Expense
	require.NoError(t, DecodeInto(token, &got))
	assert.Equal(t, expenses, got)
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	token, err := Encode([]string{"Bob & Charlie <3"})
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, `["Bob & Charlie <3"]`, string(raw))
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Encode([]models.Expense{{Name: "Bad", Participants: []int{0}, Amount: v}})
		require.Error(t, err)

		var encErr *EncodeError
		assert.True(t, errors.As(err, &encErr), "expected *EncodeError, got %T", err)
	}
}

func TestDecodeAcceptsPadding(t *testing.T) {
	token, err := Encode([]string{"A"})
	require.NoError(t, err)

	padded := token
	for len(padded)%4 != 0 {
		padded += "="
	}
	assert.True(t, proto.Equal(Decode(token), Decode(padded)))
}

func TestDecodeGarbage(t *testing.T) {
	tests := []string{
		"",
		"!!!",
		"a",
		"invalid-hash-format",
		"%5B%22Alice%22%5D",
		"_w",     // 0xff, not UTF-8
		"e30K==", // "{}\n", padded
	}

	for _, tok := range tests[:6] {
		got := Decode(tok)
		assert.True(t, proto.Equal(Empty(), got), "Decode(%q) = %v, want []", tok, got)
	}

	got := Decode(tests[6])
	assert.NotNil(t, got.GetStructValue(), "padded object should still decode")
}

func TestDecodeNeverPanics(t *testing.T) {
	f := func(s string) bool {
		return Decode(s) != nil && DecodeLegacyJSON(s) != nil
	}
	require.NoError(t, quick.Check(f, nil))
}

type sample struct {
	Names   []string  `json:"names"`
	Amounts []float64 `json:"amounts"`
}

func (s sample) normalized() sample {
	if s.Names == nil {
		s.Names = []string{}
	}
	if s.Amounts == nil {
		s.Amounts = []float64{}
	}
	return s
}

func TestRoundTripProperty(t *testing.T) {
	f := func(in sample) bool {
		token, err := Encode(in)
		if err != nil || !tokenAlphabet.MatchString(token) {
			return false
		}
		var out sample
		if err := DecodeInto(token, &out); err != nil {
			return false
		}
		return reflect.DeepEqual(in.normalized(), out.normalized())
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 200}))
}

func TestEncodeIsShorterThanPercentEncoding(t *testing.T) {
	expenses := []models.Expense{
		{Name: "Fuel", PaidBy: 0, Participants: []int{0, 1}, Amount: 500},
		{Name: "Food", PaidBy: 1, Participants: []int{0, 1, 2}, Amount: 1200, Shares: []float64{33, 33, 34}},
	}

	token, err := Encode(expenses)
	require.NoError(t, err)
	raw, err := marshal(expenses)
	require.NoError(t, err)

	legacy := percentEncode(string(raw))
	ratio := float64(len(token)) / float64(len(legacy))
	assert.Less(t, ratio, 0.65, "token %d bytes, legacy %d bytes", len(token), len(legacy))
}

func TestDecodeLegacyJSON(t *testing.T) {
	t.Run("percent-encoded array", func(t *testing.T) {
		got := DecodeLegacyJSON("%5B%22Alice%22%2C%22Bob%22%2C%22Charlie%22%5D")
		assert.True(t, proto.Equal(mustValue(t, []any{"Alice", "Bob", "Charlie"}), got))
	})

	t.Run("percent-encoded object", func(t *testing.T) {
		got := DecodeLegacyJSON("%7B%22n%22%3A%22Fuel%22%2C%22pb%22%3A0%2C%22i%22%3A%5B0%2C1%5D%2C%22a%22%3A500%7D")
		want := mustValue(t, map[string]any{"n": "Fuel", "pb": 0.0, "i": []any{0.0, 1.0}, "a": 500.0})
		assert.True(t, proto.Equal(want, got))
	})

	t.Run("round trip with encodeURIComponent", func(t *testing.T) {
		raw := `[{"n":"Café / Restaurant","pb":0}]`
		got := DecodeLegacyJSON(percentEncode(raw))
		want := mustValue(t, []any{map[string]any{"n": "Café / Restaurant", "pb": 0.0}})
		assert.True(t, proto.Equal(want, got))
	})

	t.Run("already decoded json", func(t *testing.T) {
		got := DecodeLegacyJSON(`["Alice"]`)
		assert.True(t, proto.Equal(mustValue(t, []any{"Alice"}), got))
	})

	t.Run("invalid escape", func(t *testing.T) {
		assert.True(t, proto.Equal(Empty(), DecodeLegacyJSON("%E0%A4%A")))
	})

	t.Run("invalid json", func(t *testing.T) {
		assert.True(t, proto.Equal(Empty(), DecodeLegacyJSON(url.PathEscape("[1,"))))
	})
}

func TestDecodeIntoReportsFailure(t *testing.T) {
	var people []string
	err := DecodeInto("!!!", &people)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestReencodeLegacyJSON(t *testing.T) {
	tests := []struct {
		name   string
		legacy string
		want   string
	}{
		{"keeps key order", percentEncode(`[{"n":"Fuel","pb":0,"i":[0],"a":5}]`), `[{"n":"Fuel","pb":0,"i":[0],"a":5}]`},
		{"minifies", percentEncode(`{ "n" : "A & B",  "pb": 1 }`), `{"n":"A & B","pb":1}`},
		{"people", "%5B%22Alice%22%2C%22Bob%22%5D", `["Alice","Bob"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ReencodeLegacyJSON(tt.legacy)
			require.True(t, ok)
			assert.Regexp(t, tokenAlphabet, token)

			raw, err := base64.RawURLEncoding.DecodeString(token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(raw))
			assert.True(t, proto.Equal(DecodeLegacyJSON(tt.legacy), Decode(token)))
		})
	}

	for _, bad := range []string{"%zz", url.PathEscape("[1,"), "%FF%FE", ""} {
		_, ok := ReencodeLegacyJSON(bad)
		assert.False(t, ok, bad)
	}
}
