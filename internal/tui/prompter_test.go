package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePrompter_ReadLine(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("first\r\n\nlast"), &out)
	ctx := context.Background()

	line, err := p.ReadLine(ctx, "Message:")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = p.ReadLine(ctx, "Press Enter")
	require.NoError(t, err)
	assert.Empty(t, line)

	line, err = p.ReadLine(ctx, "Again")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = p.ReadLine(ctx, "EOF")
	require.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out.String(), "Message:")
}

func TestLinePrompter_Confirm(t *testing.T) {
	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", true, false},
	}
	for _, tc := range tests {
		p := NewLinePrompter(strings.NewReader(tc.input), io.Discard)
		got, err := p.Confirm(context.Background(), "Push?", tc.defaultYes)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q default %v", tc.input, tc.defaultYes)
	}
}

func TestLinePrompter_CanceledContext(t *testing.T) {
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	p := NewLinePrompter(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ReadLine(ctx, "never answered")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLinePrompter_AbandonedReadIsReused(t *testing.T) {
	r, w := io.Pipe()
	p := NewLinePrompter(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		cancel()
	}()
	_, err := p.ReadLine(ctx, "first")
	if err == nil {
		t.Skip("read completed before cancellation")
	}

	go func() {
		_, _ = w.Write([]byte("answer\n"))
		_ = w.Close()
	}()
	line, err := p.ReadLine(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, "answer", line)
}

func TestAutoPrompter(t *testing.T) {
	var p Prompter = AutoPrompter{}
	ctx := context.Background()

	yes, err := p.Confirm(ctx, "Push?", true)
	require.NoError(t, err)
	assert.True(t, yes)

	private, err := p.Confirm(ctx, "Private?", false)
	require.NoError(t, err)
	assert.False(t, private)

	line, err := p.ReadLine(ctx, "Press Enter")
	require.NoError(t, err)
	assert.Empty(t, line)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.ReadLine(canceled, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHuhPrompter_NoTerminal(t *testing.T) {
	// go test runs without a terminal on stdin.
	p := NewHuhPrompter()
	_, err := p.Confirm(context.Background(), "Push?", true)
	require.ErrorIs(t, err, ErrMenuCanceled)
}
