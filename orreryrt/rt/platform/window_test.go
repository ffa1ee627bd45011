package platform

import (
	"testing"

	"github.com/gekko3d/orrery/orreryrt/rt/loop"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		key    glfw.Key
		action glfw.Action
		want   loop.KeyEvent
	}{
		{glfw.KeyEscape, glfw.Press, loop.KeyEvent{Key: loop.KeyEscape, Action: loop.Press}},
		{glfw.KeyEscape, glfw.Release, loop.KeyEvent{Key: loop.KeyEscape, Action: loop.Release}},
		{glfw.KeySpace, glfw.Repeat, loop.KeyEvent{Key: loop.KeySpace, Action: loop.Repeat}},
		{glfw.KeyKPAdd, glfw.Press, loop.KeyEvent{Key: loop.KeyEqual, Action: loop.Press}},
		{glfw.KeyKPSubtract, glfw.Press, loop.KeyEvent{Key: loop.KeyMinus, Action: loop.Press}},
		{glfw.KeyA, glfw.Press, loop.KeyEvent{Key: loop.KeyUnknown, Action: loop.Press}},
	}
	for _, c := range cases {
		if got := TranslateKey(c.key, c.action); got != c.want {
			t.Errorf("TranslateKey(%v, %v) = %+v, want %+v", c.key, c.action, got, c.want)
		}
	}

	if !TranslateKey(glfw.KeyEscape, glfw.Press).IsEscapePress() {
		t.Errorf("escape press should stop the loop")
	}
}
