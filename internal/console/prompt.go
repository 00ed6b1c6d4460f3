package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fatih/color"

	"twentyone/internal/game"
)

var ErrTooManyAttempts = errors.New("too many invalid answers")

const DefaultAttempts = 5

// Console reads answers line by line and re-asks on bad input, up to
// Attempts times per question.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	Attempts int
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		Attempts: DefaultAttempts,
	}
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// ask prints question and feeds answers to parse until one is accepted.
func (c *Console) ask(question string, parse func(string) bool) error {
	for i := 0; i < c.Attempts; i++ {
		fmt.Fprintln(c.out, question)

		line, err := c.readLine()
		if err != nil {
			return err
		}
		if parse(line) {
			return nil
		}
		color.New(color.FgRed).Fprintln(c.out, "Sorry, that's not a valid choice.")
	}
	return ErrTooManyAttempts
}

// Decide implements game.Decider by prompting for hit or stay.
func (c *Console) Decide(ctx context.Context, cards []game.Card, total int) (game.Action, error) {
	var action game.Action

	err := c.ask("Hit or stay? (h for hit, s for stay)", func(line string) bool {
		a, err := game.ParseAction(line)
		if err != nil {
			return false
		}
		action = a
		return true
	})
	if err != nil {
		return 0, err
	}
	return action, nil
}

// AskName accepts a non-empty name made of letters and spaces.
func (c *Console) AskName() (string, error) {
	var name string

	err := c.ask("Please enter your name", func(line string) bool {
		if line == "" {
			return false
		}
		for _, r := range line {
			if !unicode.IsLetter(r) && r != ' ' {
				return false
			}
		}
		name = line
		return true
	})
	return name, err
}

func (c *Console) AskYesNo(question string) (bool, error) {
	var yes bool

	err := c.ask(question+" (Y/N)", func(line string) bool {
		switch strings.ToLower(line) {
		case "y", "yes":
			yes = true
			return true
		case "n", "no":
			yes = false
			return true
		}
		return false
	})
	return yes, err
}
