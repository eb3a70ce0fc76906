// Package validate checks request input at the HTTP boundary and converts it
// into the typed inputs the stores accept. Failures are reported as a list of
// per-field issues in the same {code, path, message} shape API clients
// already parse.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Issue codes.
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidFormat = "invalid_format"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeCustom        = "custom"
)

// Issue describes one rejected field.
type Issue struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Issues is a non-empty list of problems with one input.
type Issues []Issue

func (is Issues) Error() string {
	parts := make([]string, 0, len(is))
	for _, i := range is {
		parts = append(parts, strings.Join(i.Path, ".")+": "+i.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// object holds the decoded top-level fields of a JSON body.
type object struct {
	fields map[string]any
	issues Issues
}

func parseObject(body []byte) *object {
	o := &object{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		o.add(CodeInvalidType, "", "Request body must be a JSON object")
		return o
	}
	fields, ok := v.(map[string]any)
	if !ok {
		o.add(CodeInvalidType, "", "Request body must be a JSON object")
		return o
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		o.add(CodeInvalidType, "", "Request body must contain a single JSON object")
		return o
	}
	o.fields = fields
	return o
}

func (o *object) add(code, field, msg string) {
	path := []string{}
	if field != "" {
		path = []string{field}
	}
	o.issues = append(o.issues, Issue{Code: code, Path: path, Message: msg})
}

// lookup treats an explicit null the same as an absent key.
func (o *object) lookup(key string) (any, bool) {
	v, ok := o.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// str reads a string field whose rune length lies in [min, max]. A zero max
// means unbounded. requiredMsg is used when the field is required and absent.
func (o *object) str(key string, required bool, min, max int, requiredMsg string) *string {
	v, ok := o.lookup(key)
	if !ok {
		if required {
			o.add(CodeInvalidType, key, requiredMsg)
		}
		return nil
	}
	s, ok := v.(string)
	if !ok {
		o.add(CodeInvalidType, key, "Expected string")
		return nil
	}

	n := utf8.RuneCountInString(s)
	switch {
	case n < min:
		msg := requiredMsg
		if msg == "" {
			msg = fmt.Sprintf("Must contain at least %d character(s)", min)
		}
		o.add(CodeTooSmall, key, msg)
		return nil
	case max > 0 && n > max:
		o.add(CodeTooBig, key, fmt.Sprintf("Must contain at most %d character(s)", max))
		return nil
	}
	return &s
}

// integer reads an integer field, coercing numeric strings. When nonNegative
// is set, values below zero are rejected.
func (o *object) integer(key string, required, nonNegative bool) *int {
	v, ok := o.lookup(key)
	if !ok {
		if required {
			o.add(CodeInvalidType, key, "Required")
		}
		return nil
	}

	n, msg := coerceInt(v)
	if msg != "" {
		o.add(CodeInvalidType, key, msg)
		return nil
	}
	if nonNegative && n < 0 {
		o.add(CodeTooSmall, key, "Must be greater than or equal to 0")
		return nil
	}
	return &n
}

func (o *object) timestamp(key string) (time.Time, bool) {
	s := o.str(key, true, 0, 0, "Required")
	if s == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		o.add(CodeInvalidFormat, key, "Invalid ISO datetime")
		return time.Time{}, false
	}
	return t, true
}

func (o *object) record(key string) map[string]any {
	v, ok := o.lookup(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		o.add(CodeInvalidType, key, "Expected object")
		return nil
	}
	return normalizeNumbers(m).(map[string]any)
}

func (o *object) stringList(key string) []string {
	v, ok := o.lookup(key)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		o.add(CodeInvalidType, key, "Expected array")
		return nil
	}

	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			o.issues = append(o.issues, Issue{
				Code:    CodeInvalidType,
				Path:    []string{key, strconv.Itoa(i)},
				Message: "Expected string",
			})
			return nil
		}
		out = append(out, s)
	}
	return out
}

// coerceInt accepts JSON numbers and numeric strings holding an integral
// value that fits a Postgres integer. On failure it returns the issue message.
func coerceInt(v any) (int, string) {
	var raw string
	switch x := v.(type) {
	case json.Number:
		raw = x.String()
	case string:
		raw = strings.TrimSpace(x)
	default:
		return 0, "Expected number"
	}
	if raw == "" {
		return 0, "Expected number"
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, "Expected number"
	}
	if f != math.Trunc(f) {
		return 0, "Expected integer"
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, "Number out of range"
	}
	return int(f), ""
}

// normalizeNumbers turns json.Number leaves back into float64 so metadata
// round-trips like a plain json.Unmarshal.
func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, item := range x {
			x[k] = normalizeNumbers(item)
		}
		return x
	case []any:
		for i, item := range x {
			x[i] = normalizeNumbers(item)
		}
		return x
	default:
		return v
	}
}
