package loop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleClock(t *testing.T) {
	c := NewSampleClock(0.5, 0.25)
	assert.False(t, c.ShouldClose())

	assert.Equal(t, 0.0, c.Now())
	assert.False(t, c.ShouldClose())
	assert.Equal(t, 0.5, c.Now())
	assert.Equal(t, 0.75, c.Now())
	assert.True(t, c.ShouldClose())
	assert.Equal(t, 0.75, c.Now(), "clock holds after the last sample")

	c.Events[1] = []KeyEvent{{Key: KeyF3, Action: Press}}
	assert.Empty(t, c.PollEvents())
	assert.Equal(t, []KeyEvent{{Key: KeyF3, Action: Press}}, c.PollEvents())

	c.SwapBuffers()
	assert.Equal(t, 1, c.Swaps)
}

func TestKeyEvent_IsEscapePress(t *testing.T) {
	assert.True(t, KeyEvent{Key: KeyEscape, Action: Press}.IsEscapePress())
	assert.False(t, KeyEvent{Key: KeyEscape, Action: Repeat}.IsEscapePress())
	assert.False(t, KeyEvent{Key: KeySpace, Action: Press}.IsEscapePress())
}
