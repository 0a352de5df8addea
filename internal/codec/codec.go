// Package codec converts JSON-shaped values to and from compact tokens that
// can sit in a URL fragment without percent-escaping.
//
// The current format is URL-safe base64 (no padding) of the minified JSON.
// The previous format, percent-encoded JSON, can still be read with
// DecodeLegacyJSON so old links can be migrated.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrDecode is returned by DecodeInto when a token cannot be read.
var ErrDecode = errors.New("failed to decode token")

// EncodeError reports a value that has no JSON form, such as NaN or an
// infinite amount.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode as fragment: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Encode returns the fragment token for v.
func Encode(v any) (string, error) {
	data, err := marshal(v)
	if err != nil {
		return "", &EncodeError{Err: err}
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode returns the value carried by token. It never fails: anything that
// is not valid base64 of UTF-8 JSON decodes to an empty list.
func Decode(token string) *structpb.Value {
	data, err := decodeBytes(token)
	if err != nil {
		return Empty()
	}
	return parse(data)
}

// DecodeLegacyJSON reads the percent-encoded JSON format used by old
// query-string links. Failures decode to an empty list.
func DecodeLegacyJSON(token string) *structpb.Value {
	s, err := url.PathUnescape(token)
	if err != nil {
		return Empty()
	}
	return parse([]byte(s))
}

// ReencodeLegacyJSON converts a legacy query value straight into a token.
// The JSON text is only minified, so object keys keep their order. It
// reports false when token is not percent-encoded UTF-8 JSON.
func ReencodeLegacyJSON(token string) (string, bool) {
	s, err := url.PathUnescape(token)
	if err != nil || !utf8.ValidString(s) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return "", false
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), true
}

// DecodeInto decodes token straight into v. Unlike Decode it reports
// failures, wrapped in ErrDecode.
func DecodeInto(token string, v any) error {
	data, err := decodeBytes(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Empty returns a new empty list value.
func Empty() *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{})
}

func marshal(v any) ([]byte, error) {
	if pv, ok := v.(*structpb.Value); ok {
		v = pv.AsInterface()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func decodeBytes(token string) ([]byte, error) {
	token = strings.TrimRight(token, "=")
	token = strings.NewReplacer("+", "-", "/", "_").Replace(token)

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.New("token is not valid UTF-8")
	}
	return data, nil
}

func parse(data []byte) *structpb.Value {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Empty()
	}
	pv, err := structpb.NewValue(v)
	if err != nil {
		return Empty()
	}
	return pv
}
