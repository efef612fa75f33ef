package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate is shared; validator.Validate is safe for concurrent use once
// its registrations are done.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report wire names in field errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are checked numerically, so gt/gte/required work on amounts.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("enum", isEnumMember); err != nil {
		panic(fmt.Sprintf("schema: register enum validation: %v", err))
	}
	return v
}

func isEnumMember(fl validator.FieldLevel) bool {
	field := fl.Field()
	e, ok := field.Interface().(Enum)
	if !ok || field.Kind() != reflect.String {
		return false
	}
	return slices.Contains(e.Values(), field.String())
}

// Validate checks a logical value against its shape's rules.
func Validate(v any) error {
	shape, err := ShapeOf(reflect.TypeOf(v))
	if err != nil {
		return err
	}
	violations, err := check(v, shape)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return &ValidationError{Shape: shape.Name, Violations: violations}
	}
	return nil
}

func check(v any, shape *Shape) ([]Violation, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("schema: validate %s: %w", shape.Name, err)
	}

	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, Violation{
			Path:     shape.wirePath(fe.StructNamespace()),
			Reason:   reasonFor(fe.Tag()),
			Expected: expectedFor(fe),
		})
	}
	return out, nil
}

// wirePath maps a validator struct namespace (Type.Field.Items[2].Amount)
// onto wire names (field.items[2].amount). Embedded struct names are
// dropped because the shape flattens them.
func (s *Shape) wirePath(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 0 {
		segments = segments[1:]
	}

	cur := s
	var parts []string
	for _, seg := range segments {
		name, index := seg, ""
		if i := strings.IndexByte(seg, '['); i >= 0 {
			name, index = seg[:i], seg[i:]
		}
		if cur == nil {
			parts = append(parts, seg)
			continue
		}
		i := slices.IndexFunc(cur.Fields, func(f Field) bool { return f.GoName == name })
		if i < 0 {
			continue
		}
		f := cur.Fields[i]
		parts = append(parts, f.Wire+index)
		cur = f.Elem
	}
	return strings.Join(parts, ".")
}

func reasonFor(tag string) Reason {
	switch tag {
	case "required":
		return ReasonRequired
	case "enum", "oneof":
		return ReasonEnum
	case "url", "http_url", "uri":
		return ReasonURL
	case "email":
		return ReasonEmail
	case "gt", "gte", "lt", "lte", "min", "max", "len":
		return ReasonRange
	default:
		return ReasonRule
	}
}

func expectedFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "enum":
		if e, ok := fe.Value().(Enum); ok {
			return "one of " + strings.Join(e.Values(), ", ")
		}
		return "enum member"
	case "http_url":
		return "http(s) URL"
	case "url", "uri":
		return "URL"
	case "email":
		return "email address"
	case "required":
		return "non-empty value"
	}
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}
