package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()

	if !strings.HasPrefix(info, "promptledger ") {
		t.Errorf("Info() = %q, should start with the binary name", info)
	}
	if !strings.Contains(info, "commit:") {
		t.Errorf("Info() = %q, should include the commit", info)
	}
}

func TestInfo_Stable(t *testing.T) {
	// Repeated calls must not re-resolve version info
	if Info() != Info() {
		t.Error("Info() should be stable across calls")
	}
}
