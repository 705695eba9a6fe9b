package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter asks the operator questions. Every call blocks until an answer
// arrives or ctx ends.
type Prompter interface {
	// Confirm asks a yes/no question. defaultYes is the answer taken for an
	// empty reply.
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
	// ReadLine asks for one line of free text. The returned line has its
	// line ending removed.
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// HuhPrompter renders prompts as Huh forms. Use it when stdin is a terminal.
type HuhPrompter struct {
	cfg *MenuConfig
}

// NewHuhPrompter creates a HuhPrompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{cfg: NewMenuConfig()}
}

// Confirm implements Prompter.
func (p *HuhPrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return Confirm(question, defaultYes, p.cfg)
}

// ReadLine implements Prompter.
func (p *HuhPrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Input(prompt, p.cfg)
}

// LinePrompter reads plain lines from a reader, for pipes and dumb terminals.
type LinePrompter struct {
	mu      sync.Mutex
	in      *bufio.Reader
	out     io.Writer
	styles  *OutputStyles
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLinePrompter creates a LinePrompter reading from in and writing
// questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:     bufio.NewReader(in),
		out:    out,
		styles: NewOutputStyles(),
	}
}

// Confirm implements Prompter. "y" and "yes" (any case) mean yes, "n" and
// "no" mean no, an empty reply takes the default and anything else is no.
func (p *LinePrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	answer, err := p.ReadLine(ctx, question+" "+hint)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ReadLine implements Prompter. A final line without a newline is returned
// as is; end of input with nothing read returns io.EOF.
//
// A read abandoned by a canceled ctx stays pending and its line is handed
// to the next call, so the reader is never used by two goroutines.
func (p *LinePrompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, _ = fmt.Fprint(p.out, p.styles.Info.Render(prompt)+" ")

	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go func() {
			line, err := p.in.ReadString('\n')
			if errors.Is(err, io.EOF) && line != "" {
				err = nil
			}
			ch <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
		}()
	}

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(p.out)
		return "", ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		return r.line, r.err
	}
}

// AutoPrompter answers every question without asking, for --yes runs.
// Confirmations take their default and lines come back empty, so free-text
// answers must be supplied some other way (for example --message).
type AutoPrompter struct{}

// Confirm implements Prompter.
func (AutoPrompter) Confirm(ctx context.Context, _ string, defaultYes bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return defaultYes, nil
}

// ReadLine implements Prompter.
func (AutoPrompter) ReadLine(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", nil
}
