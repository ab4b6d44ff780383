package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureOutput runs f with stdout and stderr redirected to pipes and
// returns what was written to each.
func captureOutput(f func()) (stdout, stderr string) {
	oldOut, oldErr := os.Stdout, os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout, os.Stderr = wOut, wErr

	var bufOut, bufErr bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&bufOut, rOut)
		close(done)
	}()
	errDone := make(chan struct{})
	go func() {
		io.Copy(&bufErr, rErr)
		close(errDone)
	}()

	f()

	wOut.Close()
	wErr.Close()
	<-done
	<-errDone
	os.Stdout, os.Stderr = oldOut, oldErr
	rOut.Close()
	rErr.Close()
	return bufOut.String(), bufErr.String()
}

func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

func assertNotContains(t *testing.T, output, notExpected string) {
	t.Helper()
	if strings.Contains(output, notExpected) {
		t.Errorf("expected output to NOT contain %q, got:\n%s", notExpected, output)
	}
}

func assertContainsAll(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		assertContains(t, output, exp)
	}
}

// assertErrorFormat checks for the "artsy: cmd[action]:" runtime error prefix.
func assertErrorFormat(t *testing.T, output, cmd, action string) {
	t.Helper()
	assertContains(t, output, "artsy: "+cmd+"["+action+"]:")
}
