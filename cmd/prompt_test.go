package cmd

import (
	"errors"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		setStdin(t, tt.input, false)
		var got bool
		captureOutput(func() { got = confirm("Proceed?") })
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValueOrKeepsGivenValue(t *testing.T) {
	setStdin(t, "ignored\n", false)
	got, err := valueOr("given", "Email: ", false)
	if err != nil || got != "given" {
		t.Fatalf("valueOr = %q, %v", got, err)
	}
}

func TestPromptReadsLastLineWithoutNewline(t *testing.T) {
	setStdin(t, "  a@b.com  ", false)
	var got string
	var err error
	captureOutput(func() { got, err = prompt("Email: ") })
	if err != nil || got != "a@b.com" {
		t.Fatalf("prompt = %q, %v", got, err)
	}
}

func TestPromptSecretTerminalError(t *testing.T) {
	setStdin(t, "", true)
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a tty") }
	defer func() { readPassword = orig }()

	var err error
	captureOutput(func() { _, err = promptSecret("Password: ") })
	if err == nil {
		t.Fatalf("expected error from terminal read")
	}
}

func TestPromptSecretEmpty(t *testing.T) {
	setStdin(t, "", true)
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return nil, nil }
	defer func() { readPassword = orig }()

	var err error
	captureOutput(func() { _, err = promptSecret("Password: ") })
	if !errors.Is(err, errEmptyInput) {
		t.Fatalf("err = %v, want %v", err, errEmptyInput)
	}
}
