package vfx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/vfx/vfxrt/rt/effect"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("fx", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.Infof("hello %d", 1)
	assert.Contains(t, out.String(), "[fx] INFO: hello 1")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "[fx] DEBUG: shown 2")

	l.Warnf("careful")
	l.Errorf("broken")
	assert.Contains(t, errOut.String(), "[fx] WARN: careful")
	assert.Contains(t, errOut.String(), "[fx] ERROR: broken")
	assert.NotContains(t, out.String(), "careful")
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger("", true, &out, &out)
	l.Infof("plain")
	assert.Contains(t, out.String(), " INFO: plain")
	assert.NotContains(t, out.String(), "[")
}

func TestLogger_SatisfiesEffectLogger(t *testing.T) {
	var _ effect.Logger = NewNopLogger()
	var _ effect.Logger = NewDefaultLogger("", false)
}
