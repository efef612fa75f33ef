package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
)

type parseOptions struct {
	strict bool
}

// ParseOption adjusts Parse.
type ParseOption func(*parseOptions)

// Strict rejects keys the shape does not declare. By default they are ignored.
func Strict() ParseOption {
	return func(o *parseOptions) { o.strict = true }
}

var null = []byte("null")

// Parse decodes wire bytes into T and validates the result. Any structural,
// type or rule failure is returned as *ValidationError naming the wire path
// of each offending field.
func Parse[T any](data []byte, opts ...ParseOption) (T, error) {
	var out T
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	rv := reflect.ValueOf(&out).Elem()
	shape, err := ShapeOf(rv.Type())
	if err != nil {
		return out, fmt.Errorf("Parse: %w", err)
	}

	if !json.Valid(data) {
		return out, &ValidationError{Shape: shape.Name, Violations: []Violation{{
			Reason:   ReasonMalformed,
			Expected: "JSON document",
		}}}
	}

	d := decoder{strict: o.strict}
	d.object(shape, bytes.TrimSpace(data), "", rv)
	if len(d.violations) > 0 {
		var zero T
		return zero, &ValidationError{Shape: shape.Name, Violations: d.violations}
	}

	violations, err := check(out, shape)
	if err != nil {
		return out, fmt.Errorf("Parse: %w", err)
	}
	if len(violations) > 0 {
		var zero T
		return zero, &ValidationError{Shape: shape.Name, Violations: violations}
	}
	return out, nil
}

// ParseMap is the untyped counterpart of Parse: it validates data against
// T's shape and returns the payload as a map keyed by wire name.
func ParseMap[T any](data []byte, opts ...ParseOption) (map[string]any, error) {
	v, err := Parse[T](data, opts...)
	if err != nil {
		return nil, err
	}
	return RenderMap(v)
}

type decoder struct {
	strict     bool
	violations []Violation
}

func (d *decoder) fail(path string, reason Reason, expected string) {
	d.violations = append(d.violations, Violation{Path: path, Reason: reason, Expected: expected})
}

func (d *decoder) object(shape *Shape, raw json.RawMessage, path string, rv reflect.Value) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		reason := ReasonType
		if path == "" {
			reason = ReasonMalformed
		}
		d.fail(path, reason, "object "+shape.Name)
		return
	}

	for i, f := range shape.Fields {
		p := joinPath(path, f.Wire)
		value, ok := obj[f.Wire]
		if !ok {
			if f.Required {
				d.fail(p, ReasonMissing, "key "+f.Wire)
			}
			continue
		}
		if bytes.Equal(bytes.TrimSpace(value), null) {
			if f.Required {
				d.fail(p, ReasonType, f.Kind.String())
			}
			continue
		}
		d.value(f, value, p, shape.field(rv, i))
	}

	if d.strict {
		var unknown []string
		for key := range obj {
			if _, ok := shape.byWire[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			d.fail(joinPath(path, key), ReasonUnknown, "no such field in "+shape.Name)
		}
	}
}

func (d *decoder) value(f Field, raw json.RawMessage, path string, fv reflect.Value) {
	switch f.Kind {
	case KindObject:
		d.object(f.Elem, raw, path, fv)
		return
	case KindList:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			d.fail(path, ReasonType, "array of "+f.Elem.Name)
			return
		}
		list := reflect.MakeSlice(f.Type, len(items), len(items))
		for i, item := range items {
			d.object(f.Elem, item, fmt.Sprintf("%s[%d]", path, i), list.Index(i))
		}
		fv.Set(list)
		return
	case KindDecimal:
		// The decimal decoder accepts quoted numbers; anything else that is
		// not a JSON number or string is a type error either way.
		if first := firstByte(raw); first != '"' && first != '-' && (first < '0' || first > '9') {
			d.fail(path, ReasonType, f.Kind.String())
			return
		}
	}

	if err := json.Unmarshal(raw, fv.Addr().Interface()); err != nil {
		d.fail(path, ReasonType, f.Kind.String())
	}
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// ParseQuery is the inverse of Query: it reads the first value of each
// declared parameter and parses the result as T. Only string fields can
// travel this way.
func ParseQuery[T any](q url.Values, opts ...ParseOption) (T, error) {
	var zero T
	shape, err := ShapeOf(reflect.TypeOf(zero))
	if err != nil {
		return zero, fmt.Errorf("ParseQuery: %w", err)
	}

	obj := make(map[string]string, len(q))
	for key := range q {
		if f, ok := shape.byWire[key]; ok && shape.Fields[f].Kind != KindString {
			return zero, fmt.Errorf("ParseQuery: %s.%s is not a string field", shape.Name, shape.Fields[f].GoName)
		}
		obj[key] = q.Get(key)
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return zero, fmt.Errorf("ParseQuery: %w", err)
	}
	return Parse[T](data, opts...)
}
