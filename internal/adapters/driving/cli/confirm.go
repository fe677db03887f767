package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
)

var _ driven.Confirmer = (*termConfirmer)(nil)

// termConfirmer asks on the terminal. Only "y" and "yes" approve.
type termConfirmer struct {
	in         io.Reader
	out        io.Writer
	isTerminal func() bool
}

func newTermConfirmer() *termConfirmer {
	return &termConfirmer{
		in:  os.Stdin,
		out: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Confirm prints "<prompt> [y/N]: " and reads one line.
func (c *termConfirmer) Confirm(prompt string) error {
	if !c.isTerminal() {
		return domain.ErrConfirmationRequired
	}

	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		return domain.ErrAborted
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return domain.ErrAborted
	}
}

// confirm gates a destructive command. --yes skips the prompt.
func confirm(prompt string) error {
	if flagYes {
		return nil
	}
	var c driven.Confirmer = newTermConfirmer()
	if services != nil && services.Confirmer != nil {
		c = services.Confirmer
	}
	return c.Confirm(prompt)
}
