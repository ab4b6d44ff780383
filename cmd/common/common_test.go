package common

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli"
)

func newTestContext(command string, args ...string) *cli.Context {
	app := cli.NewApp()
	app.Name = "artsy"
	app.HelpName = "artsy"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse(args)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: command}
	return ctx
}

// stdout returns what f printed.
func stdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()
	f()
	w.Close()
	<-done
	os.Stdout = old
	r.Close()
	return buf.String()
}

// stubAppHelp records the exit code instead of exiting.
func stubAppHelp(t *testing.T) *int {
	t.Helper()
	code := -1
	prev := SetShowAppHelpAndExit(func(_ *cli.Context, c int) { code = c })
	t.Cleanup(func() { SetShowAppHelpAndExit(prev) })
	return &code
}

func stubCommandHelp(t *testing.T, err error) *string {
	t.Helper()
	shown := ""
	prev := SetShowCommandHelp(func(_ *cli.Context, name string) error {
		shown = name
		return err
	})
	t.Cleanup(func() { SetShowCommandHelp(prev) })
	return &shown
}

func TestSpin(t *testing.T) {
	orig := SpinnerOutput
	defer func() { SpinnerOutput = orig }()

	SpinnerOutput = nil
	stop := Spin("Restoring session")
	stop()
	stop()

	var buf bytes.Buffer
	SpinnerOutput = &buf
	stop = Spin("Restoring session")
	time.Sleep(10 * time.Millisecond)
	stop()
}

func TestBeaut(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hi", 4, " hi "},
		{"hi", 5, " hi  "},
		{"hello", 3, "hello"},
	}
	for _, tt := range tests {
		if got := Beaut(tt.s, tt.n); got != tt.want {
			t.Errorf("Beaut(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	out := stdout(func() {
		PrintRuntimeErr(nil, "login", "read_email", nil)
		PrintRuntimeErr(newTestContext("login"), "login", "read_email", errors.New("boom"))
	})
	if !strings.HasPrefix(out, "err is nil") || !strings.HasSuffix(out, "artsy: login[read_email]: boom\n") {
		t.Fatalf("output = %q", out)
	}
}

func TestPrintErrWithHelp(t *testing.T) {
	code := stubAppHelp(t)
	out := stdout(func() {
		if err := PrintErrWithHelp(newTestContext(""), errors.New("oops")); err != nil {
			t.Errorf("PrintErrWithHelp: %v", err)
		}
	})
	if *code != 1 {
		t.Fatalf("exit code = %d, want 1", *code)
	}
	if !strings.Contains(out, "artsy: oops") {
		t.Fatalf("output = %q", out)
	}
}

func TestPrintErrWithHelpSpecialErrors(t *testing.T) {
	code := stubAppHelp(t)
	PrintErrWithHelp(newTestContext(""), errors.New("flag: help requested"))
	if *code != 0 {
		t.Fatalf("help requested exit code = %d, want 0", *code)
	}

	old := VersionCmdStr
	VersionCmdStr = "artsy v0"
	defer func() { VersionCmdStr = old }()
	*code = -1
	out := stdout(func() { PrintErrWithHelp(newTestContext(""), errors.New("bad -v")) })
	if *code != -1 || !strings.Contains(out, "artsy v0") {
		t.Fatalf("version request printed %q, exit code %d", out, *code)
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	for _, helpErr := range []error{nil, errors.New("boom")} {
		shown := stubCommandHelp(t, helpErr)
		out := stdout(func() {
			if err := PrintErrWithCmdHelp(newTestContext("favorites"), errors.New("no artist")); err != nil {
				t.Errorf("PrintErrWithCmdHelp: %v", err)
			}
		})
		if *shown != "favorites" {
			t.Fatalf("help shown for %q", *shown)
		}
		if !strings.Contains(out, "artsy: no artist") {
			t.Fatalf("output = %q", out)
		}
		if helpErr != nil && !strings.Contains(out, "boom") {
			t.Fatalf("help error not printed: %q", out)
		}
	}
	if err := PrintErrWithCmdHelp(newTestContext("favorites"), nil); err != nil {
		t.Fatalf("nil error: %v", err)
	}
}

func TestUsageErrorCallback(t *testing.T) {
	shown := stubCommandHelp(t, nil)
	code := stubAppHelp(t)

	stdout(func() { UsageErrorCallback(newTestContext("login"), errors.New("bad flag"), false) })
	if *shown != "login" || *code != -1 {
		t.Fatalf("command usage error: shown %q, exit %d", *shown, *code)
	}

	*shown = ""
	stdout(func() { UsageErrorCallback(newTestContext(""), errors.New("bad flag"), false) })
	if *shown != "" || *code != 1 {
		t.Fatalf("app usage error: shown %q, exit %d", *shown, *code)
	}
}

func TestHelp(t *testing.T) {
	code := stubAppHelp(t)
	out := stdout(func() {
		if err := Help(newTestContext("help")); err != nil {
			t.Errorf("Help: %v", err)
		}
	})
	if *code != 0 || !strings.Contains(out, "artsy test") {
		t.Fatalf("app help: exit %d, output %q", *code, out)
	}

	shown := stubCommandHelp(t, nil)
	if err := Help(newTestContext("help", "login")); err != nil || *shown != "login" {
		t.Fatalf("Help(login) = %v, shown %q", err, *shown)
	}

	stubCommandHelp(t, errors.New("no help topic"))
	if err := Help(newTestContext("help", "nope")); err == nil {
		t.Fatal("expected error for unknown topic")
	}
}

func TestGetVersion(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "artsy 1.2.3"
	defer func() { VersionCmdStr = old }()

	out := stdout(func() {
		if err := GetVersion(newTestContext("version")); err != nil {
			t.Errorf("GetVersion: %v", err)
		}
	})
	if out != "artsy 1.2.3\n" {
		t.Fatalf("output = %q", out)
	}
}
