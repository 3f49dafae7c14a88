// Package prompt asks the user to confirm conflict resolutions.
//
// A Console answers reconcile prompts. Besides yes and no, the user may
// answer "yes to all" or "no to all", which applies to every later prompt
// of the same force category, or quit, which aborts the run with
// USER_QUIT.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Answer is one reply to a prompt
type Answer string

const (
	AnswerYes      Answer = "y"
	AnswerNo       Answer = "n"
	AnswerYesToAll Answer = "a"
	AnswerNoToAll  Answer = "o"
	AnswerInfo     Answer = "i"
	AnswerQuit     Answer = "q"
)

const choicesHelp = "[y]es/[n]o/yes to [a]ll/n[o] to all/[i]nfo/[q]uit"

// selectLabels are the options of the interactive select, in display order
var selectLabels = []struct {
	label  string
	answer Answer
}{
	{"yes", AnswerYes},
	{"no", AnswerNo},
	{"yes to all", AnswerYesToAll},
	{"no to all", AnswerNoToAll},
	{"quit", AnswerQuit},
}

// Console is a prompter reading answers from a terminal or a reader
type Console struct {
	mu       sync.Mutex
	in       *bufio.Reader
	out      io.Writer
	terminal bool
	// remembered holds "to all" answers per force category
	remembered map[types.ForceLevel]bool
}

// NewConsole returns a prompter on stdin/stdout. When stdin is a terminal
// the prompt is an interactive select.
func NewConsole() *Console {
	c := NewReaderConsole(os.Stdin, os.Stdout)
	c.terminal = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	return c
}

// NewReaderConsole returns a line-based prompter reading from in
func NewReaderConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:         bufio.NewReader(in),
		out:        out,
		remembered: make(map[types.ForceLevel]bool),
	}
}

// Confirm asks whether the change described by message may proceed
func (c *Console) Confirm(category types.ForceLevel, message string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := logging.GetLogger(logging.Prompt)
	if answer, ok := c.remembered[category]; ok {
		logger.Debug().
			Str("category", category.String()).
			Bool("answer", answer).
			Msg("Using remembered answer")
		return answer, nil
	}

	for {
		answer, err := c.ask(message)
		if err != nil {
			return false, err
		}
		switch answer {
		case AnswerYes:
			return true, nil
		case AnswerNo:
			return false, nil
		case AnswerYesToAll:
			c.remembered[category] = true
			return true, nil
		case AnswerNoToAll:
			c.remembered[category] = false
			return false, nil
		case AnswerQuit:
			return false, errors.New(errors.ErrUserQuit, "quit at user request")
		case AnswerInfo:
			fmt.Fprintf(c.out, "Proceeding without a prompt needs %s (%s).\n", category.Flag(), category)
		default:
			fmt.Fprintf(c.out, "Invalid input. Please choose from %s.\n", choicesHelp)
		}
	}
}

func (c *Console) ask(message string) (Answer, error) {
	if c.terminal {
		return c.selectAnswer(message)
	}
	return c.readAnswer(message)
}

func (c *Console) selectAnswer(message string) (Answer, error) {
	labels := make([]string, len(selectLabels))
	for i, opt := range selectLabels {
		labels[i] = opt.label
	}
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(labels).
		WithDefaultOption("no").
		Show(message)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to read answer")
	}
	for _, opt := range selectLabels {
		if opt.label == choice {
			return opt.answer, nil
		}
	}
	return "", nil
}

// readAnswer reads one line. End of input declines.
func (c *Console) readAnswer(message string) (Answer, error) {
	fmt.Fprintf(c.out, "%s\n%s: ", message, choicesHelp)
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return AnswerNo, nil
		}
		return "", errors.Wrap(err, errors.ErrInternal, "failed to read answer")
	}
	return parseAnswer(line), nil
}

func parseAnswer(line string) Answer {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return AnswerYes
	case "n", "no":
		return AnswerNo
	case "a", "all", "yes to all":
		return AnswerYesToAll
	case "o", "none", "no to all":
		return AnswerNoToAll
	case "i", "info":
		return AnswerInfo
	case "q", "quit":
		return AnswerQuit
	default:
		return ""
	}
}
