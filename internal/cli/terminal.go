package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"LedgerTools/internal/txspec"
)

const (
	// BackToken steps back to the previous field.
	BackToken = "<"
	// ClearToken empties a field that has a previous value.
	ClearToken = "-"
)

var ErrNoInput = errors.New("input closed")

var (
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

// Terminal is the line-oriented operator console. It implements
// txspec.Prompter.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	hidden func() (string, error)
}

var _ txspec.Prompter = (*Terminal)(nil)

// NewTerminal reads stdin and writes stdout. Secrets are read without echo
// when stdin is a terminal.
func NewTerminal() *Terminal {
	t := &Terminal{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		t.hidden = func() (string, error) {
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(t.out)
			return string(raw), err
		}
	}
	return t
}

func newTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) line(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && text != "" {
			return strings.TrimRight(text, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(text, "\r\n"), nil
}

// Ask prints label and returns the trimmed reply.
func (t *Terminal) Ask(ctx context.Context, label, hint string) (string, error) {
	if hint != "" {
		fmt.Fprintf(t.out, "%s %s: ", bold(label), faint("("+hint+")"))
	} else {
		fmt.Fprintf(t.out, "%s: ", bold(label))
	}
	s, err := t.line(ctx)
	return strings.TrimSpace(s), err
}

// AskValid re-asks until check accepts the reply.
func (t *Terminal) AskValid(ctx context.Context, label, hint string, check func(string) error) (string, error) {
	for {
		s, err := t.Ask(ctx, label, hint)
		if err != nil {
			return "", err
		}
		if err := check(s); err != nil {
			fmt.Fprintln(t.out, red(err.Error()+" - try again"))
			continue
		}
		return s, nil
	}
}

// Secret reads a line without echo where possible.
func (t *Terminal) Secret(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", bold(label))
	if t.hidden != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return t.hidden()
	}
	return t.line(ctx)
}

// Choice asks for a 1-based index into options.
func (t *Terminal) Choice(ctx context.Context, label string, options []string) (int, error) {
	fmt.Fprintln(t.out, bold(label))
	for i, o := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, o)
	}
	var idx int
	_, err := t.AskValid(ctx, "choice", fmt.Sprintf("1-%d", len(options)), func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > len(options) {
			return errors.New("invalid choice")
		}
		idx = n - 1
		return nil
	})
	return idx, err
}

// Input shows the field label with its hint and any rejection of the
// previous attempt. Enter keeps the previous value, ClearToken drops it.
func (t *Terminal) Input(ctx context.Context, p txspec.Prompt) (txspec.Reply, error) {
	if !p.Rejection.Accepted() {
		fmt.Fprintln(t.out, red(fmt.Sprintf("%s: %s", p.Label, p.Rejection)))
	}
	label := p.Label
	if p.Default != "" {
		label += " [" + p.Default + "]"
	}
	s, err := t.Ask(ctx, label, p.Hint)
	if err != nil {
		return txspec.Reply{}, err
	}
	switch s {
	case BackToken:
		return txspec.Reply{Back: true}, nil
	case ClearToken:
		return txspec.Reply{}, nil
	case "":
		return txspec.Reply{Text: p.Default}, nil
	}
	return txspec.Reply{Text: s}, nil
}

// MultiSelect toggles options by number or name. Enter keeps the current
// selection, ClearToken selects nothing.
func (t *Terminal) MultiSelect(ctx context.Context, label string, options, selected []string) ([]string, error) {
	on := make(map[string]bool, len(selected))
	for _, s := range selected {
		on[s] = true
	}
	fmt.Fprintln(t.out, bold(label))
	for i, o := range options {
		mark := " "
		if on[o] {
			mark = "x"
		}
		fmt.Fprintf(t.out, "  [%s] %d) %s\n", mark, i+1, o)
	}
	for {
		s, err := t.Ask(ctx, "select", "comma separated numbers or names, enter keeps, - for none")
		if err != nil {
			return nil, err
		}
		switch s {
		case "":
			return keep(options, on), nil
		case ClearToken:
			return nil, nil
		}
		picked, err := pick(options, s)
		if err != nil {
			fmt.Fprintln(t.out, red(err.Error()))
			continue
		}
		return picked, nil
	}
}

func keep(options []string, on map[string]bool) []string {
	var out []string
	for _, o := range options {
		if on[o] {
			out = append(out, o)
		}
	}
	return out
}

func pick(options []string, s string) ([]string, error) {
	chosen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			if n < 1 || n > len(options) {
				return nil, fmt.Errorf("no option %d", n)
			}
			chosen[options[n-1]] = true
			continue
		}
		found := false
		for _, o := range options {
			if strings.EqualFold(o, part) {
				chosen[o] = true
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown option %q", part)
		}
	}
	return keep(options, chosen), nil
}

func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		s, err := t.Ask(ctx, question, "y/n")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (t *Terminal) Notify(msg string) { fmt.Fprintln(t.out, msg) }

// Show prints v as indented JSON under a banner.
func (t *Terminal) Show(title string, v any) {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		b = []byte(fmt.Sprint(v))
	}
	fmt.Fprintf(t.out, "====== %s ======\n", title)
	fmt.Fprintln(t.out, cyan(string(b)))
	fmt.Fprintln(t.out, strings.Repeat("=", len(title)+14))
}
