package step

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ib-77/pakkr/pkg/pakkr/args"
	"github.com/ib-77/pakkr/pkg/pakkr/returns"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, Input) (any, error) { return nil, nil }

func TestIdentifier(t *testing.T) {
	t.Parallel()

	s := MustNew("normal_func", noop)
	assert.Equal(t, `"normal_func"<Step>`, Identifier(s))
}

func TestBind_PositionalThenNamed(t *testing.T) {
	t.Parallel()

	s := MustNew("count", noop, WithParams(Arg("s"), Arg("offset")))
	in, err := Bind([]any{"hello"}, map[string]any{"offset": 1, "unused": true}, s, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, in.Len())
	assert.Equal(t, "hello", in.At(0))
	assert.Nil(t, in.At(3))
	assert.Equal(t, "hello", in.Get("s"))
	assert.Equal(t, 1, in.Get("offset"))
	assert.Equal(t, map[string]any{"offset": 1}, in.Keyword())
	assert.Nil(t, in.Meta())

	offset, err := Value[int](in, "offset")
	require.NoError(t, err)
	assert.Equal(t, 1, offset)

	_, err = Value[string](in, "offset")
	assert.EqualError(t, err, "parameter 'offset' is int, not string")
	_, err = Value[string](in, "nope")
	assert.Error(t, err)
}

func TestBind_DefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	s := MustNew("outer_step", noop, WithParams(Arg("s"), Arg("a"), Opt("x", 0)))

	in, err := Bind([]any{"str"}, map[string]any{"a": true}, s, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, in.Get("x"))

	in, err = Bind([]any{"str"}, map[string]any{"a": true, "x": -1}, s, nil)
	require.NoError(t, err)
	assert.Equal(t, -1, in.Get("x"))

	// positional values win over named ones
	in, err = Bind([]any{"str", false}, map[string]any{"a": true}, s, nil)
	require.NoError(t, err)
	assert.Equal(t, false, in.Get("a"))
}

func TestBind_MissingArgument(t *testing.T) {
	t.Parallel()

	s := MustNew("missing_x", noop, WithParams(Arg("x")))
	_, err := Bind([]any{}, map[string]any{"y": "abc"}, s, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingArgument)
	assert.Equal(t, "'x' is required but not available.", err.Error())

	var missing *MissingArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "x", missing.Name)
	assert.Equal(t, `"missing_x"<Step>`, missing.Identity)
	assert.Equal(t, "\twhen executing \"missing_x\"<Step>, available inputs/meta were ()/{y: string}",
		missing.Context)
}

func TestBind_TooManyPositional(t *testing.T) {
	t.Parallel()

	s := MustNew("one", noop, WithParams(Arg("a")))
	_, err := Bind([]any{1, 2}, nil, s, nil)
	assert.ErrorIs(t, err, ErrTooManyArguments)
	assert.EqualError(t, err, `"one"<Step> takes 1 positional arguments but 2 were given`)
}

func TestBind_RestAndMeta(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	s := MustNew("all", noop, WithParams(Arg("first"), Rest("args"), Meta("meta")))

	in, err := Bind([]any{1, 2, 3}, map[string]any{"k": "v", "logger": "stale"}, s, logger)
	require.NoError(t, err)

	assert.Equal(t, 1, in.Get("first"))
	assert.Equal(t, []any{2, 3}, in.Rest())
	assert.Equal(t, []any{1, 2, 3}, in.Args())

	meta := in.Meta()
	assert.Equal(t, "v", meta["k"])
	got, ok := LoggerFrom(meta)
	require.True(t, ok)
	assert.Same(t, logger, got)
	assert.Same(t, logger, in.Logger())
	assert.Equal(t, meta, in.Get("meta"))
}

func TestBind_MetaIsCompleteMapping(t *testing.T) {
	t.Parallel()

	s := MustNew("claims", noop, WithParams(Arg("a"), Meta("meta")))
	in, err := Bind(nil, map[string]any{"a": 1, "b": 2}, s, nil)
	require.NoError(t, err)

	// claimed keys stay in the captured mapping
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, in.Meta())
}

func TestBind_LoggerParam(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	s := MustNew("logs", noop, WithParams(Arg("logger")))
	in, err := Bind(nil, map[string]any{"logger": "outer"}, s, logger)
	require.NoError(t, err)
	assert.Same(t, logger, in.Get("logger"))
}

func TestBind_DoesNotMutateNamed(t *testing.T) {
	t.Parallel()

	named := map[string]any{"a": 1}
	s := MustNew("m", noop, WithParams(Meta("meta")))
	in, err := Bind(nil, named, s, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	in.Meta()["b"] = 2
	assert.Equal(t, map[string]any{"a": 1}, named)
}

func TestNew_Configuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		opts []Option
	}{
		{"double returns", []Option{WithReturns(returns.NoReturn()), WithReturns(returns.NoReturn())}},
		{"nil returns", []Option{WithReturns(nil)}},
		{"double arguments", []Option{WithArguments(), WithArguments()}},
		{"duplicate param", []Option{WithParams(Arg("a"), Arg("a"))}},
		{"unnamed param", []Option{WithParams(Arg(""))}},
		{"positional after rest", []Option{WithParams(Rest("r"), Arg("a"))}},
		{"two metas", []Option{WithParams(Meta("m"), Meta("n"))}},
		{"unknown argument", []Option{WithParams(Arg("a")), WithArguments(args.String("config", "", ""))}},
		{"argument on meta", []Option{WithParams(Meta("config")), WithArguments(args.String("config", "", ""))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("s", noop, tc.opts...)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}

	_, err := New("s", nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = New("s", noop, Returning(nil, returns.Fields{"x": nil}))
	assert.ErrorIs(t, err, returns.ErrConfiguration)
}

func TestNew_ArgumentMessages(t *testing.T) {
	t.Parallel()

	_, err := New("test", noop, WithArguments(args.String("config", "", "")))
	assert.EqualError(t, err, `'config' is not an argument of "test".`)

	_, err = New("test", noop, WithParams(Rest("config")), WithArguments(args.String("config", "", "")))
	assert.EqualError(t, err, `'config' should be a positional or keyword argument of "test".`)
}

func TestFunc_Declarations(t *testing.T) {
	t.Parallel()

	s := MustNew("test",
		func(_ context.Context, in Input) (any, error) { return "config: " + in.Get("config").(string), nil },
		WithParams(Arg("config")),
		WithArguments(args.String("config", "", "config file")),
		Returning([]returns.Type{returns.String}, nil),
	)

	assert.Equal(t, "Step", s.Kind())
	assert.Equal(t, "([string], nil)", s.Returns().String())

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	assert.Same(t, fs, s.AddArguments(fs))
	assert.NotNil(t, fs.Lookup("config"))

	in, err := NewInput(s.Params(), map[string]any{"config": "some_file"})
	require.NoError(t, err)
	out, err := s.Invoke(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "config: some_file", out)

	assert.Nil(t, MustNew("plain", noop).Returns())
}
