package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedResponses(t *testing.T) {
	ctx := context.Background()
	s := NewSimulated(0)

	out, err := s.Explain(ctx, "const f = function() { for (;;) {} }")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "This code appears to be a function that:"))
	assert.Contains(t, out, "- Loops for iteration")
	assert.Contains(t, out, "- Function definitions")
	assert.NotContains(t, out, "Conditional statements")
	assert.True(t, strings.HasSuffix(out, "The code follows modern JavaScript patterns."))

	out, err = s.Explain(ctx, "x = 1")
	require.NoError(t, err)
	assert.Contains(t, out, "a script that")
	assert.Contains(t, out, "traditional patterns")

	out, err = s.Optimize(ctx, "let x = 1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "// Optimized version of your code\nlet x = 1\n\n// AI Suggestions:"))

	out, err = s.Enhance(ctx, "notes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Enhanced Version\n\nnotes\n\n## AI Suggestions:"))

	out, err = s.Generate(ctx, "sorting")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Based on your prompt: \"sorting\""))
}

func TestSimulatedDelay(t *testing.T) {
	s := NewSimulated(1)
	assert.Equal(t, 2*time.Second, s.Delay(ActionOptimize))
	assert.Equal(t, 1500*time.Millisecond, s.Delay(ActionExplain))
	assert.Equal(t, time.Second, s.Delay(ActionEnhance))
	assert.Equal(t, 2*time.Second, s.Delay(ActionGenerate))

	assert.Equal(t, 50*time.Millisecond, NewSimulated(0.05).Delay(ActionEnhance))
	assert.Zero(t, NewSimulated(-1).Delay(ActionEnhance))
}

func TestSimulatedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulated(1).Generate(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewSimulated(0).Generate(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo(t *testing.T) {
	s := NewSimulated(0)
	for _, a := range Actions {
		out, err := Do(context.Background(), s, a, "input")
		require.NoError(t, err, a)
		assert.NotEmpty(t, out)
	}

	_, err := Do(context.Background(), s, Action("summarize"), "input")
	assert.Error(t, err)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Explain ")
	require.NoError(t, err)
	assert.Equal(t, ActionExplain, a)

	_, err = ParseAction("translate")
	assert.Error(t, err)
}
