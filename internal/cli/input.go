package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// prompt prints label and reads one line, trimmed. A partial line before
// EOF still counts.
func (a *App) prompt(label string) (string, error) {
	if _, err := fmt.Fprint(a.out, label); err != nil {
		return "", err
	}
	line, err := a.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise (pipes, tests).
func (a *App) promptPassword(label string) (string, error) {
	if _, err := fmt.Fprint(a.out, label); err != nil {
		return "", err
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// promptFloat keeps asking until the input parses as a number.
func (a *App) promptFloat(label string) (float64, error) {
	for {
		s, err := a.prompt(label)
		if err != nil {
			return 0, err
		}
		v, err := cast.ToFloat64E(s)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(a.out, "Please enter a number.")
	}
}

// promptInt keeps asking until the input parses as an integer.
func (a *App) promptInt(label string) (int, error) {
	for {
		s, err := a.prompt(label)
		if err != nil {
			return 0, err
		}
		v, err := cast.ToIntE(s)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(a.out, "Please enter a whole number.")
	}
}

// promptIndex reads a 1-based selection or "back"; ok is false for "back".
func (a *App) promptIndex(label string, max int) (idx int, ok bool, err error) {
	s, err := a.prompt(label)
	if err != nil {
		return 0, false, err
	}
	if strings.EqualFold(s, "back") {
		return 0, false, nil
	}
	v, err := cast.ToIntE(s)
	if err != nil || v < 1 || v > max {
		fmt.Fprintln(a.out, "Invalid choice.")
		return 0, false, nil
	}
	return v, true, nil
}
