package testutil

import (
	"context"
	"sync"
)

// ScriptedPrompter answers prompts from fixed scripts and records every
// question it was asked. An exhausted script returns ErrMockPrompt.
type ScriptedPrompter struct {
	mu sync.Mutex

	// Confirms are the answers to Confirm, in order.
	Confirms []bool
	// Lines are the answers to ReadLine, in order.
	Lines []string
	// LineErr, when set, is returned by ReadLine instead of consuming Lines.
	LineErr error

	// Asked records every question and prompt, in order.
	Asked []string
}

// Confirm returns the next scripted answer.
func (p *ScriptedPrompter) Confirm(ctx context.Context, question string, _ bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Asked = append(p.Asked, question)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(p.Confirms) == 0 {
		return false, ErrMockPrompt
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

// ReadLine returns the next scripted line.
func (p *ScriptedPrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Asked = append(p.Asked, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.LineErr != nil {
		return "", p.LineErr
	}
	if len(p.Lines) == 0 {
		return "", ErrMockPrompt
	}
	line := p.Lines[0]
	p.Lines = p.Lines[1:]
	return line, nil
}
