package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestMonitor(t *testing.T) {
	const console = "USB inited.\n" +
		"flashid: ef4018\n" +
		"\n-----------------------------------\n" +
		"[loader] unrecoverable error: application image not found\n" +
		"*** ipl panic: system halted ***\n" +
		"-----------------------------------\n"

	specs := []struct {
		stopOnPanic bool
		expErr      error
		expLastLine string
	}{
		{false, nil, "-----------------------------------"},
		{true, errIPLPanic, "*** ipl panic: system halted ***"},
	}

	for specIndex, spec := range specs {
		var out bytes.Buffer

		if err := monitor(strings.NewReader(console), &out, spec.stopOnPanic); err != spec.expErr {
			t.Errorf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
		}

		lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		if got := lines[len(lines)-1]; got != spec.expLastLine {
			t.Errorf("[spec %d] expected last line %q; got %q", specIndex, spec.expLastLine, got)
		}
	}
}
