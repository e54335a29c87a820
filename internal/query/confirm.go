package query

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

// Confirm calls f(question).
func (f ConfirmFunc) Confirm(question string) bool { return f(question) }

// PromptConfirmer writes the question to Out and reads one line from In.
// Only an exact "y" or "Y" confirms.
type PromptConfirmer struct {
	out    io.Writer
	reader *bufio.Reader
}

// NewPromptConfirmer creates a PromptConfirmer reading answers from in.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{out: out, reader: bufio.NewReader(in)}
}

// Confirm implements Confirmer.
func (p *PromptConfirmer) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s (y/N) ", question)

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line == "y" || line == "Y"
}
