package perr

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// StepContext describes a call for the context chain:
//
//	\tinside "count"<Step> executed with (string, offset=int)
//	\t\tavailable meta {offset: int}
//
// The meta line is left out when meta is empty.
func StepContext(identity string, args []any, opts map[string]any, meta map[string]any) string {
	calledWith := make([]string, 0, len(args)+len(opts))
	for _, a := range args {
		calledWith = append(calledWith, TypeName(a))
	}
	for _, k := range slices.Sorted(maps.Keys(opts)) {
		calledWith = append(calledWith, fmt.Sprintf("%s=%s", k, TypeName(opts[k])))
	}

	var availableMeta string
	if len(meta) > 0 {
		availableMeta = "\n\t\tavailable meta " + Summarise(meta)
	}
	return fmt.Sprintf("\tinside %s executed with (%s)%s",
		identity, strings.Join(calledWith, ", "), availableMeta)
}

// MissingContext describes what was on hand when a parameter could not be bound.
func MissingContext(identity string, args []any, named map[string]any) string {
	return fmt.Sprintf("\twhen executing %s, available inputs/meta were %s/%s",
		identity, TypeList(args), Summarise(named))
}

// Summarise renders a map as its keys and value types, keys sorted.
func Summarise(m map[string]any) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, TypeName(m[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// TypeList renders the types of values as a parenthesised list.
func TypeList(values []any) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = TypeName(v)
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
