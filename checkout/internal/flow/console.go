package flow

import (
	"bufio"
	"context"
	"io"
)

// LineReader hands out one line of customer input at a time.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// Console reads lines from r on a background goroutine so a pending read
// can be abandoned through ctx. End of input surfaces as io.EOF.
type Console struct {
	lines chan string
	err   error
}

// NewConsole starts reading r.
func NewConsole(r io.Reader) *Console {
	c := &Console{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			c.lines <- scanner.Text()
		}
		c.err = scanner.Err()
		close(c.lines)
	}()
	return c
}

// ReadLine blocks until a line arrives, input ends, or ctx is done.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			if c.err != nil {
				return "", c.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}
