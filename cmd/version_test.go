package cmd

import (
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	out, _ := capture(t, versionCmd)

	versionCmd.Run(versionCmd, nil)

	if got := strings.TrimSpace(out.String()); got != "prlink "+Version {
		t.Errorf("expected %q, got %q", "prlink "+Version, got)
	}
}
