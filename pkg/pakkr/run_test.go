package pakkr

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ib-77/pakkr/pkg/pakkr/core"
	"github.com/ib-77/pakkr/pkg/pakkr/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordHandler struct {
	mu       *sync.Mutex
	messages *[]string
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.messages = append(*h.messages, r.Message)
	return nil
}

func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordHandler) WithGroup(string) slog.Handler      { return h }

func recordingContext() (context.Context, func() []string) {
	var (
		mu       sync.Mutex
		messages []string
	)
	logger := slog.New(recordHandler{mu: &mu, messages: &messages})
	return core.WithLogger(context.Background(), logger), func() []string {
		mu.Lock()
		defer mu.Unlock()
		// durations vary, keep only the part before them
		out := make([]string, len(messages))
		for i, m := range messages {
			out[i], _, _ = strings.Cut(m, " (took")
		}
		return out
	}
}

func TestRun_TimingLines(t *testing.T) {
	t.Parallel()

	ctx, messages := recordingContext()
	p := MustNew([]step.Step{sayHello()}, WithName("p"))
	_, err := p.Call(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`"p"<Pipeline> - starting`,
		`    "say_hello"<Step> - starting`,
		`    "say_hello"<Step> - finished`,
		`"p"<Pipeline> - finished`,
	}, messages())
}

func TestRun_NestedTimingLines(t *testing.T) {
	t.Parallel()

	ctx, messages := recordingContext()
	inner := MustNew([]step.Step{sayHello()}, WithName("inner"))
	outer := MustNew([]step.Step{inner}, WithName("outer"))
	_, err := outer.Call(ctx)
	require.NoError(t, err)

	// the nested pipeline brackets itself, the outer one does not bracket it again
	assert.Equal(t, []string{
		`"outer"<Pipeline> - starting`,
		`    "inner"<Pipeline> - starting`,
		`        "say_hello"<Step> - starting`,
		`        "say_hello"<Step> - finished`,
		`    "inner"<Pipeline> - finished`,
		`"outer"<Pipeline> - finished`,
	}, messages())
}

func TestRun_StepLogger(t *testing.T) {
	t.Parallel()

	ctx, messages := recordingContext()
	talk := step.MustNew("talk", func(_ context.Context, in step.Input) (any, error) {
		in.Logger().Info("hi")
		return nil, nil
	})
	withLogger := step.MustNew("with_logger", func(_ context.Context, in step.Input) (any, error) {
		in.Get("logger").(*slog.Logger).Info("hey")
		return nil, nil
	}, step.WithParams(step.Arg("previous"), step.Arg("logger")))

	_, err := MustNew([]step.Step{talk, withLogger}, WithName("p"), WithoutTiming()).Call(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`    "talk"<Step> - hi`,
		`    "with_logger"<Step> - hey`,
	}, messages())
}

func TestRun_TimingSuppressed(t *testing.T) {
	t.Parallel()

	ctx, messages := recordingContext()
	_, err := MustNew([]step.Step{sayHello()}, WithoutTiming()).Call(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages())

	_, err = MustNew([]step.Step{sayHello()}).Call(core.WithTimingSuppressed(ctx, true))
	require.NoError(t, err)
	assert.Empty(t, messages())
}

func TestRun_FailureLogsNoFinish(t *testing.T) {
	t.Parallel()

	ctx, messages := recordingContext()
	_, err := MustNew([]step.Step{throw("boom")}, WithName("p")).Call(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{
		`"p"<Pipeline> - starting`,
		`    "throw"<Step> - starting`,
	}, messages())
}

func TestRun_FailureOutputAtTopLevelOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := core.WithFailureOutput(context.Background(), &buf)

	inner := MustNew([]step.Step{throw("boom")}, WithName("inner"))
	_, err := MustNew([]step.Step{inner}, WithName("outer")).Call(ctx)
	require.Error(t, err)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "*errors.errorString: boom"))
	assert.Contains(t, out, "\tinside \"throw\"<Step> executed with ()\n"+
		"\tinside \"inner\"<Pipeline> executed with ()\n"+
		"\tinside \"outer\"<Pipeline> executed with ()")
}

func TestRun_Reentrant(t *testing.T) {
	t.Parallel()

	p := MustNew([]step.Step{count()})
	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := p.CallWithMeta(context.Background(), map[string]any{"offset": i}, "abc")
			if err == nil {
				results[i] = out
			}
		}()
	}
	wg.Wait()
	for i, r := range results {
		assert.Equal(t, 3+i, r)
	}
}
