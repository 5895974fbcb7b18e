package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPipeline_RunsInOrder(t *testing.T) {
	var order []string
	record := func(name string) Stage {
		return NewStage(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	p := New(nil).Add(record("response"), record("synthesize"), record("quantize"))
	assert.Equal(t, []string{"response", "synthesize", "quantize"}, p.Names())

	timings, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"response", "synthesize", "quantize"}, order)
	require.Len(t, timings, 3)
	assert.Equal(t, "quantize", timings[2].Name)
}

func TestPipeline_StopsAtFirstError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	boom := errors.New("boom")
	ran := false

	p := New(zap.New(core)).Add(
		NewStage("ok", func(context.Context) error { return nil }),
		NewStage("bad", func(context.Context) error { return boom }),
		NewStage("never", func(context.Context) error { ran = true; return nil }),
	)

	timings, err := p.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `stage "bad"`)
	assert.False(t, ran)
	assert.Len(t, timings, 1)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "bad", logs.All()[0].ContextMap()["stage"])
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Add(NewStage("x", func(context.Context) error { return nil })).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Empty(t *testing.T) {
	_, err := New(nil).Run(context.Background())
	require.ErrorIs(t, err, ErrEmptyPipeline)
}
