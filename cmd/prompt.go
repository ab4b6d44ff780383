package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errEmptyInput = errors.New("no input given")

// Terminal seams, replaced in tests.
var (
	stdin        io.Reader = os.Stdin
	stdinFd                = func() int { return int(os.Stdin.Fd()) }
	isTerminal             = term.IsTerminal
	readPassword           = term.ReadPassword
)

var stdinReader *bufio.Reader

func lineReader() *bufio.Reader {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(stdin)
	}
	return stdinReader
}

// prompt prints label and reads one line from stdin.
func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := lineReader().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errEmptyInput
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errEmptyInput
	}
	return line, nil
}

// promptSecret reads a line without echo when stdin is a terminal.
func promptSecret(label string) (string, error) {
	fd := stdinFd()
	if !isTerminal(fd) {
		return prompt(label)
	}
	fmt.Print(label)
	b, err := readPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errEmptyInput
	}
	return string(b), nil
}

// valueOr returns v, prompting for it when empty.
func valueOr(v, label string, secret bool) (string, error) {
	if v != "" {
		return v, nil
	}
	if secret {
		return promptSecret(label)
	}
	return prompt(label)
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(question string) bool {
	ans, err := prompt(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true
	}
	return false
}
