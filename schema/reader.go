package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/foomo/globalcontent-mcp/service/vo"
	"go.uber.org/multierr"
)

// JSON kinds as reported in TypeMismatchError.
const (
	KindNull    = "null"
	KindString  = "string"
	KindNumber  = "number"
	KindInteger = "integer"
	KindBoolean = "boolean"
	KindObject  = "object"
	KindArray   = "array"
)

// KindOf names the JSON kind of a decoded value.
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBoolean
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	}
	return fmt.Sprintf("%T", v)
}

// reader pulls typed fields out of one decoded JSON object and records
// failures. Once a failure is recorded in fail fast mode every further read
// is a no-op.
type reader struct {
	obj  map[string]any
	opts *options
	errs error
}

func newReader(v any, opts *options) (*reader, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{Expected: KindObject, Actual: KindOf(v)}
	}
	return &reader{obj: obj, opts: opts}, nil
}

func (r *reader) stopped() bool {
	return r.opts.failFast && r.errs != nil
}

func (r *reader) fail(err error) {
	r.errs = multierr.Append(r.errs, err)
}

func (r *reader) err() error {
	return r.errs
}

// lookup returns the raw value of a required field.
func (r *reader) lookup(name string) (any, bool) {
	if r.stopped() {
		return nil, false
	}
	v, ok := r.obj[name]
	if !ok {
		r.fail(&MissingFieldError{Field: name})
		return nil, false
	}
	return v, true
}

// lookupOptional returns the raw value of an optional field. Absence is not a
// failure.
func (r *reader) lookupOptional(name string) (any, bool) {
	if r.stopped() {
		return nil, false
	}
	v, ok := r.obj[name]
	return v, ok
}

func (r *reader) requiredString(name string) string {
	v, ok := r.lookup(name)
	if !ok {
		return ""
	}
	s, ok := r.asString(name, v)
	if !ok {
		return ""
	}
	return s
}

func (r *reader) requiredID(name string) int64 {
	v, ok := r.lookup(name)
	if !ok {
		return 0
	}
	id, err := asInt64(v)
	if err != nil {
		r.fail(idMismatch(name, err))
		return 0
	}
	return id
}

func (r *reader) optionalString(name string) vo.Optional[string] {
	v, ok := r.lookupOptional(name)
	if !ok {
		return vo.None[string]()
	}
	s, ok := r.asString(name, v)
	if !ok {
		return vo.None[string]()
	}
	return vo.Some(s)
}

func (r *reader) optionalBool(name string) vo.Optional[bool] {
	v, ok := r.lookupOptional(name)
	if !ok {
		return vo.None[bool]()
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(&TypeMismatchError{Field: name, Expected: KindBoolean, Actual: KindOf(v)})
		return vo.None[bool]()
	}
	return vo.Some(b)
}

func (r *reader) optionalLinkType(name string) vo.Optional[vo.LinkType] {
	v, ok := r.lookupOptional(name)
	if !ok {
		return vo.None[vo.LinkType]()
	}
	s, ok := r.asString(name, v)
	if !ok {
		return vo.None[vo.LinkType]()
	}
	t, err := vo.ParseLinkType(s)
	if err != nil {
		r.fail(&InvalidEnumValueError{Field: name, Value: s, Allowed: linkTypeNames()})
		return vo.None[vo.LinkType]()
	}
	return vo.Some(t)
}

// object reads a required nested object and hands it to parse. Failures of
// parse are re-rooted under name.
func (r *reader) object(name string, parse func(v any) error) {
	v, ok := r.lookup(name)
	if !ok {
		return
	}
	if _, isObj := v.(map[string]any); !isObj {
		r.fail(&TypeMismatchError{Field: name, Expected: KindObject, Actual: KindOf(v)})
		return
	}
	if err := parse(v); err != nil {
		r.fail(nestAll(name, err))
	}
}

// array reads a required ordered sequence and hands it to parse.
func (r *reader) array(name string, parse func(items []any) error) {
	v, ok := r.lookup(name)
	if !ok {
		return
	}
	items, isArr := v.([]any)
	if !isArr {
		r.fail(&TypeMismatchError{Field: name, Expected: KindArray, Actual: KindOf(v)})
		return
	}
	if err := parse(items); err != nil {
		r.fail(nestAll(name, err))
	}
}

func (r *reader) asString(name string, v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		r.fail(&TypeMismatchError{Field: name, Expected: KindString, Actual: KindOf(v)})
	}
	return s, ok
}

type kindError struct {
	expected string
	actual   string
}

func (e kindError) Error() string {
	return "expected " + e.expected + ", got " + e.actual
}

func idMismatch(name string, err error) error {
	if k, ok := err.(kindError); ok {
		return &TypeMismatchError{Field: name, Expected: k.expected, Actual: k.actual}
	}
	return &TypeMismatchError{Field: name, Expected: KindInteger, Actual: KindNumber}
}

// asInt64 accepts any numeric kind holding an integral value that fits
// into int64.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, kindError{expected: KindNumber, actual: KindString}
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, kindError{expected: KindInteger, actual: KindNumber}
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, kindError{expected: KindInteger, actual: KindNumber}
		}
		return int64(n), nil
	}
	return 0, kindError{expected: KindNumber, actual: KindOf(v)}
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, kindError{expected: KindInteger, actual: KindNumber}
	}
	return int64(f), nil
}

func linkTypeNames() []string {
	types := vo.LinkTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
