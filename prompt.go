package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"catalog-cart/apperr"
)

// console reads answers line by line from in and writes prompts to out.
type console struct {
	in  io.Reader
	sc  *bufio.Scanner
	out io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: in, sc: bufio.NewScanner(in), out: out}
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// ask prints prompt and returns the trimmed answer; false on end of input.
func (c *console) ask(prompt string) (string, bool) {
	c.printf("%s", prompt)
	if !c.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.sc.Text()), true
}

func (c *console) askInt(prompt string) (int, bool, error) {
	s, ok := c.ask(prompt)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("invalid number: %s", s)
	}
	return n, true, nil
}

// readPassword masks input when in is a terminal and falls back to a plain
// line read otherwise.
func (c *console) readPassword(prompt string) (string, bool, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.printf("%s", prompt)
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		c.println() // Add newline after password input
		if err != nil {
			return "", true, fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(string(bytePassword)), true, nil
	}
	s, ok := c.ask(prompt)
	return s, ok, nil
}

// report prints an operation error with its details, one per line.
func (c *console) report(prefix string, err error) {
	e := apperr.As(err)
	if e == nil {
		c.printf("%s: %v\n", prefix, err)
		return
	}
	c.printf("%s: %s\n", prefix, e.Message())
	for _, d := range e.Details() {
		c.printf("  - %s\n", d)
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
