package manager

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user a yes or no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConfirmer reads answers from in and writes the question to out.
func NewConfirmer(in io.Reader, out io.Writer) Confirmer {
	return promptConfirmer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm repeats the question until the answer is y or n.
func (c promptConfirmer) Confirm(question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(c.out, "%s (y/n)\n", question); err != nil {
			return false, err
		}

		line, err := c.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, errors.New("no answer given")
			}
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
	}
}
