package returns

import (
	"fmt"
	"reflect"
	"strings"
)

// Type is a type descriptor. The set of implementations is closed.
type Type interface {
	// Satisfies reports whether v conforms to the descriptor
	Satisfies(v any) bool
	String() string
	sealed()
}

// Concrete matches values whose dynamic type is assignable to T.
type Concrete struct {
	T reflect.Type
}

// Union matches a value accepted by any alternative.
type Union struct {
	Alternatives []Type
}

// Container checks the outer kind only. Elements are never inspected,
// so Slice accepts []int and []string alike.
type Container struct {
	Kind reflect.Kind
}

// Nested validates one slot with a full contract. It contributes the named
// values of that contract and no positional value of its own.
type Nested struct {
	Contract Contract
}

type anyType struct{}

type nilType struct{}

var (
	Any     Type = anyType{}
	Nil     Type = nilType{}
	Int          = Of[int]()
	Int64        = Of[int64]()
	Float64      = Of[float64]()
	String       = Of[string]()
	Bool         = Of[bool]()
	Error        = Of[error]()

	Slice Type = Container{Kind: reflect.Slice}
	Map   Type = Container{Kind: reflect.Map}
	Func  Type = Container{Kind: reflect.Func}
	Chan  Type = Container{Kind: reflect.Chan}
	Array Type = Container{Kind: reflect.Array}
)

// Of returns the Concrete descriptor for T. Interface types match every value
// implementing them.
func Of[T any]() Type {
	return Concrete{T: reflect.TypeFor[T]()}
}

// OneOf builds a union of the given alternatives.
func OneOf(alternatives ...Type) Type {
	return Union{Alternatives: alternatives}
}

// Optional accepts nil or a value satisfying t.
func Optional(t Type) Type {
	return OneOf(t, Nil)
}

func (c Concrete) Satisfies(v any) bool {
	if v == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if c.T.Kind() == reflect.Interface {
		return vt.Implements(c.T)
	}
	return vt.AssignableTo(c.T)
}

func (c Concrete) String() string { return c.T.String() }

func (u Union) Satisfies(v any) bool {
	for _, alt := range u.Alternatives {
		if alt.Satisfies(v) {
			return true
		}
	}
	return false
}

func (u Union) String() string {
	names := make([]string, len(u.Alternatives))
	for i, alt := range u.Alternatives {
		names[i] = alt.String()
	}
	return "Union[" + strings.Join(names, ", ") + "]"
}

func (c Container) Satisfies(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == c.Kind
}

func (c Container) String() string { return c.Kind.String() }

func (n Nested) Satisfies(v any) bool {
	_, _, err := n.Contract.Validate(v)
	return err == nil
}

func (n Nested) String() string { return n.Contract.String() }

func (anyType) Satisfies(any) bool { return true }
func (anyType) String() string     { return "Any" }

func (nilType) Satisfies(v any) bool { return isNil(v) }
func (nilType) String() string       { return "nil" }

func (Concrete) sealed()  {}
func (Union) sealed()     {}
func (Container) sealed() {}
func (Nested) sealed()    {}
func (anyType) sealed()   {}
func (nilType) sealed()   {}

func isNil(i any) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func sameType(a, b Type) bool {
	return reflect.DeepEqual(a, b)
}

func typeList(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
