package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/dvloznov/finops-gateway/internal/schema/fakers"
	"github.com/shopspring/decimal"
)

// generator produces a value for one field.
type generator func(f *fakers.Faker, fld Field) (any, error)

var generators = map[string]generator{
	"uuid":        func(f *fakers.Faker, _ Field) (any, error) { return f.UUID(), nil },
	"amount":      func(f *fakers.Faker, _ Field) (any, error) { return f.Amount(), nil },
	"category":    func(f *fakers.Faker, _ Field) (any, error) { return f.Category(), nil },
	"email":       func(f *fakers.Faker, _ Field) (any, error) { return f.Email(), nil },
	"first_name":  func(f *fakers.Faker, _ Field) (any, error) { return f.FirstName(), nil },
	"last_name":   func(f *fakers.Faker, _ Field) (any, error) { return f.LastName(), nil },
	"middle_name": func(f *fakers.Faker, _ Field) (any, error) { return f.MiddleName(), nil },
	"phone":       func(f *fakers.Faker, _ Field) (any, error) { return f.Phone(), nil },
	"url":         func(f *fakers.Faker, _ Field) (any, error) { return f.URL(), nil },
	"text":        func(f *fakers.Faker, _ Field) (any, error) { return f.Text(), nil },
	"holder":      func(f *fakers.Faker, _ Field) (any, error) { return f.CardHolder(), nil },
	"card_number": func(f *fakers.Faker, _ Field) (any, error) { return f.Digits(16), nil },
	"date":        func(f *fakers.Faker, _ Field) (any, error) { return f.Date(), nil },
	"timestamp":   func(f *fakers.Faker, _ Field) (any, error) { return f.Timestamp(), nil },
	"enum": func(f *fakers.Faker, fld Field) (any, error) {
		values := fld.EnumValues()
		if len(values) == 0 {
			return nil, fmt.Errorf("%s is not an enum type", fld.Type)
		}
		return f.Enum(values), nil
	},
}

// WithDefaults builds a fully populated T. Fields named in overrides (by
// wire, logical or Go name) take the given value; every other field gets a
// generated one. The result is validated before it is returned.
func WithDefaults[T any](f *fakers.Faker, overrides map[string]any) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	shape, err := ShapeOf(rv.Type())
	if err != nil {
		return out, fmt.Errorf("WithDefaults: %w", err)
	}

	if err := populate(f, shape, rv, overrides); err != nil {
		return out, fmt.Errorf("WithDefaults: %w", err)
	}
	if err := Validate(out); err != nil {
		return out, err
	}
	return out, nil
}

func populate(f *fakers.Faker, shape *Shape, rv reflect.Value, overrides map[string]any) error {
	set := make(map[int]string, len(overrides))
	nested := make(map[int]map[string]any)

	for key, val := range overrides {
		fld, ok := shape.Lookup(key)
		if !ok {
			return fmt.Errorf("%s has no field %q", shape.Name, key)
		}
		i := shape.byWire[fld.Wire]
		if prev, dup := set[i]; dup {
			return fmt.Errorf("%s.%s set twice (%q and %q)", shape.Name, fld.GoName, prev, key)
		}
		set[i] = key

		if sub, ok := val.(map[string]any); ok && fld.Kind == KindObject {
			nested[i] = sub
			continue
		}
		if err := assign(shape.field(rv, i), val); err != nil {
			return fmt.Errorf("%s.%s: %w", shape.Name, fld.GoName, err)
		}
	}

	for i, fld := range shape.Fields {
		if _, done := set[i]; done && nested[i] == nil {
			continue
		}
		if err := generate(f, fld, shape.field(rv, i), nested[i]); err != nil {
			return fmt.Errorf("%s.%s: %w", shape.Name, fld.GoName, err)
		}
	}
	return nil
}

func generate(f *fakers.Faker, fld Field, fv reflect.Value, overrides map[string]any) error {
	switch fld.Kind {
	case KindObject:
		return populate(f, fld.Elem, fv, overrides)
	case KindList:
		n := f.Count(1, 3)
		list := reflect.MakeSlice(fld.Type, n, n)
		for i := 0; i < n; i++ {
			if err := populate(f, fld.Elem, list.Index(i), nil); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		fv.Set(list)
		return nil
	}

	name := fld.Fake
	if name == "-" {
		return nil
	}
	if name == "" {
		name = defaultGenerator(fld)
		if name == "" {
			return nil
		}
	}

	var val any
	if n, ok := fakers.ParseDigits(name); ok {
		val = f.Digits(n)
	} else {
		gen, ok := generators[name]
		if !ok {
			return fmt.Errorf("unknown generator %q", name)
		}
		var err error
		if val, err = gen(f, fld); err != nil {
			return err
		}
	}
	return assign(fv, val)
}

// defaultGenerator picks a generator for required fields with no fake tag.
func defaultGenerator(fld Field) string {
	if !fld.Required {
		return ""
	}
	switch {
	case fld.IsEnum():
		return "enum"
	case fld.Kind == KindDecimal:
		return "amount"
	case fld.Kind == KindTime:
		return "timestamp"
	case fld.Kind == KindString:
		return "text"
	}
	return ""
}

// assign stores val into fv, converting between compatible representations
// (string to enum type, number or string to decimal, RFC 3339 string to time).
func assign(fv reflect.Value, val any) error {
	if val == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	switch fv.Type() {
	case decimalType:
		d, err := toDecimal(val)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(d))
		return nil
	case timeType:
		if s, ok := val.(string); ok {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return fmt.Errorf("parse time %q: %w", s, err)
			}
			fv.Set(reflect.ValueOf(t))
			return nil
		}
	}

	v := reflect.ValueOf(val)
	switch {
	case v.Type().AssignableTo(fv.Type()):
		fv.Set(v)
	case v.Kind() == fv.Kind() && v.Type().ConvertibleTo(fv.Type()):
		fv.Set(v.Convert(fv.Type()))
	default:
		return fmt.Errorf("cannot use %T as %s", val, fv.Type())
	}
	return nil
}

func toDecimal(val any) (decimal.Decimal, error) {
	switch x := val.(type) {
	case decimal.Decimal:
		return x, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		return decimal.NewFromString(x)
	}
	return decimal.Decimal{}, fmt.Errorf("cannot use %T as decimal", val)
}
