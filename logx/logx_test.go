package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerDebugToggle(t *testing.T) {
	l := NewDefaultLogger("test", false)
	assert.False(t, l.DebugEnabled())
	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
}

func TestNopLoggerIsSafe(t *testing.T) {
	l := NewNopLogger()
	assert.False(t, l.DebugEnabled())
	assert.NotPanics(t, func() {
		l.SetDebug(true)
		l.Debugf("a %d", 1)
		l.Infof("b")
		l.Warnf("c")
		l.Errorf("d")
	})
}
