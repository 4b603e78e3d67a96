package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		contracts []Contract
		want      string
	}{
		{"empty", nil, "([Any], nil)"},
		{"undeclared", []Contract{nil, nil}, "([Any], nil)"},
		{"no return", []Contract{nil, NoReturn()}, "NoReturn"},
		{"meta only", []Contract{
			MustValue([]Type{String}, nil),
			MustMeta(Fields{"offset": Int}),
		}, "{offset: int}"},
		{"meta accumulates", []Contract{
			MustMeta(Fields{"offset": Int}),
			MustValue([]Type{String}, MustMeta(Fields{"a": Bool})),
			MustValue([]Type{Int}, nil),
		}, "([int], {a: bool, offset: int})"},
		{"undeclared resets positional", []Contract{
			MustValue([]Type{Int, String}, MustMeta(Fields{"a": Bool})),
			nil,
		}, "([Any], {a: bool})"},
		{"later key wins", []Contract{
			MustMeta(Fields{"a": Bool}),
			MustMeta(Fields{"a": Int}),
		}, "{a: int}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Fold(tc.contracts...).String())
		})
	}
}
