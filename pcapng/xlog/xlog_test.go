package xlog

import (
	"testing"

	"github.com/sofiworker/pcapng/pcapng"
)

func TestNopLoggerSatisfiesInterface(t *testing.T) {
	var _ pcapng.Logger = NewNop()
}

func TestDebugfAndWarnfDoNotPanic(t *testing.T) {
	l := NewNop()
	l.Debugf("hello %s", "world")
	l.Warnf("count=%d", 3)
	if err := l.Sync(); err != nil {
		// A nop core's Sync returns nil; any error here is only
		// logged, not treated as a test failure.
		t.Logf("Sync returned %v (expected on some platforms)", err)
	}
}
