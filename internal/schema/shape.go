// Package schema maps typed message structs to and from their JSON wire form.
//
// A message is declared once as a Go struct. The json tag gives the wire
// name (omitempty marks the field optional on the wire), the validate tag
// carries the rules and the fake tag names the default generator. ShapeOf
// turns that declaration into an explicit per-field table which Render,
// Parse, WithDefaults and the untyped helpers all consult.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Kind classifies how a field travels on the wire.
type Kind int

const (
	KindRaw Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindTime
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindDecimal:
		return "decimal number"
	case KindTime:
		return "RFC 3339 timestamp"
	case KindObject:
		return "object"
	case KindList:
		return "array"
	default:
		return "value"
	}
}

// Enum is implemented by string types with a closed set of members.
type Enum interface {
	Values() []string
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
	enumType    = reflect.TypeOf((*Enum)(nil)).Elem()
)

// Field is one row of a shape's mapping table.
type Field struct {
	GoName   string // struct field name, e.g. AccountID
	Logical  string // snake_case logical name, e.g. account_id
	Wire     string // wire name, e.g. accountId
	Kind     Kind
	Required bool   // must be present on the wire
	Fake     string // generator name from the fake tag
	Type     reflect.Type
	Elem     *Shape // element shape for KindObject and KindList

	index []int
}

// IsEnum reports whether the field's type declares a closed value set.
func (f Field) IsEnum() bool {
	return f.Type.Implements(enumType)
}

// EnumValues returns the members of an enum field, or nil.
func (f Field) EnumValues() []string {
	if !f.IsEnum() {
		return nil
	}
	return reflect.Zero(f.Type).Interface().(Enum).Values()
}

// Shape is the field table of one message type.
type Shape struct {
	Name   string
	Type   reflect.Type
	Fields []Field

	byKey  map[string]int
	byWire map[string]int
}

// Lookup finds a field by wire name, logical name or Go field name.
func (s *Shape) Lookup(key string) (Field, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// WireName returns the wire name for a logical or Go field name.
func (s *Shape) WireName(name string) (string, bool) {
	f, ok := s.Lookup(name)
	if !ok {
		return "", false
	}
	return f.Wire, true
}

// Aliases returns the logical-to-wire table for the fields whose names differ.
func (s *Shape) Aliases() map[string]string {
	out := make(map[string]string)
	for _, f := range s.Fields {
		if f.Logical != f.Wire {
			out[f.Logical] = f.Wire
		}
	}
	return out
}

func (s *Shape) field(rv reflect.Value, i int) reflect.Value {
	return rv.FieldByIndex(s.Fields[i].index)
}

var shapes sync.Map // reflect.Type -> *Shape

// ShapeOf returns the cached shape of a struct type (or pointer to one).
func ShapeOf(t reflect.Type) (*Shape, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %v is not a struct type", t)
	}
	if cached, ok := shapes.Load(t); ok {
		return cached.(*Shape), nil
	}

	s, err := buildShape(t)
	if err != nil {
		return nil, err
	}
	actual, _ := shapes.LoadOrStore(t, s)
	return actual.(*Shape), nil
}

// MustShapeOf is ShapeOf for package-level declarations.
func MustShapeOf(v any) *Shape {
	s, err := ShapeOf(reflect.TypeOf(v))
	if err != nil {
		panic(err)
	}
	return s
}

func buildShape(t reflect.Type) (*Shape, error) {
	s := &Shape{
		Name:   t.Name(),
		Type:   t,
		byKey:  make(map[string]int),
		byWire: make(map[string]int),
	}
	if err := s.collect(t, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// collect appends the fields of t, flattening embedded structs so an
// extension carries every field and rule of its base.
func (s *Shape) collect(t reflect.Type, prefix []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			if err := s.collect(sf.Type, index); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		f := Field{
			GoName:   sf.Name,
			Logical:  snakeCase(sf.Name),
			Wire:     name,
			Kind:     kindOf(sf.Type),
			Required: !hasOption(opts, "omitempty"),
			Fake:     sf.Tag.Get("fake"),
			Type:     sf.Type,
			index:    index,
		}

		switch f.Kind {
		case KindObject:
			elem, err := ShapeOf(sf.Type)
			if err != nil {
				return err
			}
			f.Elem = elem
		case KindList:
			elem, err := ShapeOf(sf.Type.Elem())
			if err != nil {
				return err
			}
			f.Elem = elem
		}

		if _, dup := s.byWire[f.Wire]; dup {
			return fmt.Errorf("schema: %s declares wire name %q twice", s.Name, f.Wire)
		}
		pos := len(s.Fields)
		s.Fields = append(s.Fields, f)
		s.byWire[f.Wire] = pos
		for _, key := range []string{f.Wire, f.Logical, f.GoName} {
			if _, taken := s.byKey[key]; !taken {
				s.byKey[key] = pos
			}
		}
	}
	return nil
}

func kindOf(t reflect.Type) Kind {
	switch {
	case t == decimalType:
		return KindDecimal
	case t == timeType:
		return KindTime
	}
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Struct:
		return KindObject
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Struct && t.Elem() != decimalType && t.Elem() != timeType {
			return KindList
		}
	}
	return KindRaw
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

// snakeCase converts a Go identifier to its logical name: AccountID -> account_id.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
