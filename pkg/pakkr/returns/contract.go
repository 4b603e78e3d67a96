package returns

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Tuple is the multi-value result of a step. A step declaring more than one
// return slot must return a Tuple of exactly that length.
type Tuple []any

// Fields maps meta names to their type descriptors.
type Fields map[string]Type

// Contract is a declared output shape. Implementations are NoReturnContract,
// MetaContract and ValueContract.
type Contract interface {
	// Validate splits a raw step result into positional and named values
	Validate(raw any) (Tuple, map[string]any, error)
	// Narrow projects accumulated values down to exactly what is declared
	Narrow(positional Tuple, named map[string]any) (Tuple, map[string]any, error)
	// IsSupersetOf fails when other claims anything this contract does not provide
	IsSupersetOf(other Contract) error
	String() string
	sealed()
}

type NoReturnContract struct{}

type MetaContract struct {
	fields Fields
}

type ValueContract struct {
	types []Type
	meta  *MetaContract
}

// NoReturn declares that a step produces nothing.
func NoReturn() *NoReturnContract {
	return &NoReturnContract{}
}

// NewMeta declares named values only. At least one field is required.
func NewMeta(fields Fields) (*MetaContract, error) {
	if len(fields) == 0 {
		return nil, configError("No meta key/type given.")
	}
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		switch fields[k].(type) {
		case nil:
			return nil, configError("Value for meta key '%s' is not a type descriptor", k)
		case Nested:
			return nil, configError("Meta key '%s' cannot hold a nested contract", k)
		}
	}
	return &MetaContract{fields: maps.Clone(fields)}, nil
}

// NewValue declares positional values followed by optional named values.
func NewValue(types []Type, meta *MetaContract) (*ValueContract, error) {
	if len(types) == 0 {
		if meta != nil {
			return nil, configError("'values' is empty, use Meta instead.")
		}
		return nil, configError("'values' and 'meta' are empty, use NoReturn instead.")
	}
	for i, t := range types {
		switch t.(type) {
		case nil:
			return nil, configError("Value %d is not a type descriptor", i)
		case Nested:
			return nil, configError("Value %d: nested contracts are only allowed as the trailing meta", i)
		}
	}
	return &ValueContract{types: slices.Clone(types), meta: meta}, nil
}

// Declare picks the contract variant the way a step declaration reads:
// nothing at all is NoReturn, fields alone are Meta, anything positional
// is a Value.
func Declare(types []Type, fields Fields) (Contract, error) {
	switch {
	case len(types) == 0 && len(fields) == 0:
		return NoReturn(), nil
	case len(types) == 0:
		return NewMeta(fields)
	}
	var meta *MetaContract
	if len(fields) > 0 {
		m, err := NewMeta(fields)
		if err != nil {
			return nil, err
		}
		meta = m
	}
	return NewValue(types, meta)
}

func MustMeta(fields Fields) *MetaContract {
	m, err := NewMeta(fields)
	if err != nil {
		panic(err)
	}
	return m
}

func MustValue(types []Type, meta *MetaContract) *ValueContract {
	v, err := NewValue(types, meta)
	if err != nil {
		panic(err)
	}
	return v
}

func MustDeclare(types []Type, fields Fields) Contract {
	c, err := Declare(types, fields)
	if err != nil {
		panic(err)
	}
	return c
}

func (*NoReturnContract) Validate(raw any) (Tuple, map[string]any, error) {
	if !isNil(raw) {
		return nil, nil, violation("Do not expect value other than nil.")
	}
	return Tuple{}, map[string]any{}, nil
}

func (*NoReturnContract) Narrow(Tuple, map[string]any) (Tuple, map[string]any, error) {
	return Tuple{}, map[string]any{}, nil
}

func (n *NoReturnContract) IsSupersetOf(other Contract) error {
	switch other.(type) {
	case nil, *NoReturnContract:
		return nil
	}
	return violation("%s is not a superset of %s.", n, other)
}

func (*NoReturnContract) String() string { return "NoReturn" }

// Keys returns the declared names in sorted order.
func (m *MetaContract) Keys() []string {
	return slices.Sorted(maps.Keys(m.fields))
}

func (m *MetaContract) Fields() Fields {
	return maps.Clone(m.fields)
}

func (m *MetaContract) Validate(raw any) (Tuple, map[string]any, error) {
	result, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, violation("Meta should be a map[string]any not %s", typeName(raw))
	}

	var missing, extra []string
	for _, k := range m.Keys() {
		if _, ok := result[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(result)) {
		if _, ok := m.fields[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, fmt.Sprintf("Missing meta keys %v.", missing))
		}
		if len(extra) > 0 {
			parts = append(parts, fmt.Sprintf("Unexpected meta keys %v.", extra))
		}
		return nil, nil, violation("%s", strings.Join(parts, " "))
	}

	var wrong []string
	for _, k := range m.Keys() {
		t := m.fields[k]
		if !t.Satisfies(result[k]) {
			wrong = append(wrong, fmt.Sprintf("key '%s' should be type %s but %s was returned",
				k, t, typeName(result[k])))
		}
	}
	if len(wrong) > 0 {
		return nil, nil, violation("Meta error: %s.", strings.Join(wrong, " and "))
	}

	return Tuple{}, maps.Clone(result), nil
}

func (m *MetaContract) Narrow(_ Tuple, named map[string]any) (Tuple, map[string]any, error) {
	out := make(map[string]any, len(m.fields))
	for _, k := range m.Keys() {
		item, ok := named[k]
		if !ok {
			return nil, nil, violation("Key '%s' does not exist in %v", k, named)
		}
		if t := m.fields[k]; !t.Satisfies(item) {
			return nil, nil, violation("'%v' is not of type %s.", item, t)
		}
		out[k] = item
	}
	return Tuple{}, out, nil
}

func (m *MetaContract) IsSupersetOf(other Contract) error {
	switch o := other.(type) {
	case nil, *NoReturnContract:
		return nil
	case *MetaContract:
		for k := range o.fields {
			if _, ok := m.fields[k]; !ok {
				return violation("%s is not a superset of %s.", m, o)
			}
		}
		return nil
	}
	return violation("%s is not a superset of %s.", m, other)
}

func (m *MetaContract) String() string {
	parts := make([]string, 0, len(m.fields))
	for _, k := range m.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %s", k, m.fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v *ValueContract) Types() []Type {
	return slices.Clone(v.types)
}

// Meta returns the trailing named part, nil when none is declared.
func (v *ValueContract) Meta() *MetaContract {
	return v.meta
}

func (v *ValueContract) slots() []Type {
	if v.meta == nil {
		return v.types
	}
	return append(slices.Clone(v.types), Nested{Contract: v.meta})
}

func (v *ValueContract) Validate(raw any) (Tuple, map[string]any, error) {
	slots := v.slots()

	items := Tuple{raw}
	if len(slots) > 1 {
		tuple, ok := raw.(Tuple)
		if !ok {
			return nil, nil, violation("Returned value '%v' is not a Tuple", raw)
		}
		if len(tuple) != len(slots) {
			return nil, nil, violation("Expecting %d values, but only %d were returned.",
				len(slots), len(tuple))
		}
		items = tuple
	}

	positional := Tuple{}
	named := map[string]any{}
	var wrong []string
	for i, slot := range slots {
		if nested, ok := slot.(Nested); ok {
			p, m, err := nested.Contract.Validate(items[i])
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, p...)
			maps.Copy(named, m)
			continue
		}
		if !slot.Satisfies(items[i]) {
			wrong = append(wrong, fmt.Sprintf("'%v' is not of type %s", items[i], slot))
			continue
		}
		positional = append(positional, items[i])
	}
	if len(wrong) > 0 {
		return nil, nil, violation("Values error: %s.", strings.Join(wrong, " and "))
	}
	return positional, named, nil
}

func (v *ValueContract) Narrow(positional Tuple, named map[string]any) (Tuple, map[string]any, error) {
	if len(positional) != len(v.types) {
		return nil, nil, violation("Cannot downcast %v to %s", []any(positional), typeList(v.types))
	}
	out := make(Tuple, 0, len(v.types))
	for i, t := range v.types {
		if !t.Satisfies(positional[i]) {
			return nil, nil, violation("Cannot downcast %v to %s", []any(positional), typeList(v.types))
		}
		out = append(out, positional[i])
	}
	if v.meta == nil {
		return out, map[string]any{}, nil
	}
	_, meta, err := v.meta.Narrow(nil, named)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}

func (v *ValueContract) IsSupersetOf(other Contract) error {
	switch o := other.(type) {
	case nil, *NoReturnContract:
		return nil
	case *MetaContract:
		if v.meta == nil {
			return violation("%s is not a superset of %s.", v, o)
		}
		return v.meta.IsSupersetOf(o)
	case *ValueContract:
		if len(v.types) != len(o.types) || !slices.EqualFunc(v.types, o.types, sameType) {
			return violation("Return values are not the same '%s' vs '%s'.",
				typeList(v.types), typeList(o.types))
		}
		if o.meta == nil {
			return nil
		}
		if v.meta == nil {
			return violation("%s is not a superset of %s.", v, o)
		}
		return v.meta.IsSupersetOf(o.meta)
	}
	return violation("%s is not a superset of %s.", v, other)
}

func (v *ValueContract) String() string {
	meta := "nil"
	if v.meta != nil {
		meta = v.meta.String()
	}
	return fmt.Sprintf("(%s, %s)", typeList(v.types), meta)
}

func (*NoReturnContract) sealed() {}
func (*MetaContract) sealed()     {}
func (*ValueContract) sealed()    {}
