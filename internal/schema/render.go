package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Render converts a logical value to its JSON wire form. Every field is
// written under its wire name in declaration order; optional fields left
// at their zero value are omitted.
func Render(v any) ([]byte, error) {
	rv, shape, err := structValue(v)
	if err != nil {
		return nil, fmt.Errorf("Render: %w", err)
	}

	violations, err := check(rv.Interface(), shape)
	if err != nil {
		return nil, fmt.Errorf("Render: %w", err)
	}
	if len(violations) > 0 {
		return nil, &RenderError{Shape: shape.Name, Violations: violations}
	}

	var buf bytes.Buffer
	if err := writeObject(&buf, shape, rv); err != nil {
		return nil, fmt.Errorf("Render: %s: %w", shape.Name, err)
	}
	return buf.Bytes(), nil
}

// RenderMap is the untyped counterpart of Render: a map keyed by wire name.
func RenderMap(v any) (map[string]any, error) {
	data, err := Render(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("RenderMap: %w", err)
	}
	return out, nil
}

// Query renders a flat message as URL query parameters keyed by wire name.
func Query(v any) (url.Values, error) {
	rv, shape, err := structValue(v)
	if err != nil {
		return nil, fmt.Errorf("Query: %w", err)
	}

	violations, err := check(rv.Interface(), shape)
	if err != nil {
		return nil, fmt.Errorf("Query: %w", err)
	}
	if len(violations) > 0 {
		return nil, &RenderError{Shape: shape.Name, Violations: violations}
	}

	q := url.Values{}
	for i, f := range shape.Fields {
		fv := shape.field(rv, i)
		if !f.Required && fv.IsZero() {
			continue
		}
		switch f.Kind {
		case KindObject, KindList, KindRaw:
			return nil, fmt.Errorf("Query: %s.%s: %s cannot be a query parameter", shape.Name, f.GoName, f.Kind)
		case KindDecimal:
			q.Set(f.Wire, fv.Interface().(decimal.Decimal).String())
		case KindTime:
			q.Set(f.Wire, fv.Interface().(time.Time).Format(time.RFC3339Nano))
		default:
			q.Set(f.Wire, fmt.Sprint(fv.Interface()))
		}
	}
	return q, nil
}

func structValue(v any) (reflect.Value, *Shape, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, nil, fmt.Errorf("nil %v", rv.Type())
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return reflect.Value{}, nil, fmt.Errorf("nil value")
	}
	shape, err := ShapeOf(rv.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv, shape, nil
}

func writeObject(buf *bytes.Buffer, shape *Shape, rv reflect.Value) error {
	buf.WriteByte('{')
	first := true
	for i, f := range shape.Fields {
		fv := shape.field(rv, i)
		if !f.Required && fv.IsZero() {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(f.Wire)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(buf, f, fv); err != nil {
			return fmt.Errorf("%s: %w", f.Wire, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, f Field, fv reflect.Value) error {
	switch f.Kind {
	case KindDecimal:
		// Amounts travel as JSON numbers, not strings.
		buf.WriteString(fv.Interface().(decimal.Decimal).String())
		return nil
	case KindObject:
		return writeObject(buf, f.Elem, fv)
	case KindList:
		buf.WriteByte('[')
		for i := 0; i < fv.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeObject(buf, f.Elem, fv.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	}

	data, err := json.Marshal(fv.Interface())
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
