// Package platform wraps a glfw window as a loop.Platform.
package platform

import (
	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/loop"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Init must be called on the main thread before NewWindow.
func Init() error {
	if err := glfw.Init(); err != nil {
		return orrery.PlatformInitf(err, "glfw init")
	}
	return nil
}

func Terminate() {
	glfw.Terminate()
}

// Window buffers key events between polls and forwards framebuffer resizes.
// SwapBuffers calls the present hook, since a WebGPU surface presents itself.
type Window struct {
	handle   *glfw.Window
	events   []loop.KeyEvent
	present  func()
	onResize func(width, height int)
	log      orrery.Logger
}

func NewWindow(cfg orrery.WindowConfig, log orrery.Logger) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, orrery.PlatformInitf(err, "create window %dx%d", cfg.Width, cfg.Height)
	}

	w := &Window{handle: handle, log: orrery.LoggerOrNop(log)}
	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.events = append(w.events, TranslateKey(key, action))
	})
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.log.Debugf("framebuffer resized to %dx%d", width, height)
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	return w, nil
}

// Handle exposes the glfw window for surface creation.
func (w *Window) Handle() *glfw.Window {
	return w.handle
}

func (w *Window) FramebufferSize() (int, int) {
	return w.handle.GetFramebufferSize()
}

func (w *Window) SetPresentHook(fn func()) {
	w.present = fn
}

func (w *Window) SetResizeHandler(fn func(width, height int)) {
	w.onResize = fn
}

func (w *Window) Now() float64 {
	return glfw.GetTime()
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

// PollEvents pumps glfw and returns the key events seen since the last call.
func (w *Window) PollEvents() []loop.KeyEvent {
	glfw.PollEvents()
	if len(w.events) == 0 {
		return nil
	}
	ev := w.events
	w.events = nil
	return ev
}

func (w *Window) SwapBuffers() {
	if w.present != nil {
		w.present()
	}
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}

var glfwKeys = map[glfw.Key]loop.Key{
	glfw.KeyEscape:     loop.KeyEscape,
	glfw.KeySpace:      loop.KeySpace,
	glfw.KeyF3:         loop.KeyF3,
	glfw.KeyEqual:      loop.KeyEqual,
	glfw.KeyKPAdd:      loop.KeyEqual,
	glfw.KeyMinus:      loop.KeyMinus,
	glfw.KeyKPSubtract: loop.KeyMinus,
}

func TranslateKey(key glfw.Key, action glfw.Action) loop.KeyEvent {
	ev := loop.KeyEvent{Key: loop.KeyUnknown}
	if k, ok := glfwKeys[key]; ok {
		ev.Key = k
	}
	switch action {
	case glfw.Press:
		ev.Action = loop.Press
	case glfw.Repeat:
		ev.Action = loop.Repeat
	default:
		ev.Action = loop.Release
	}
	return ev
}
