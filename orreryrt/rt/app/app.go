package app

import (
	"fmt"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/assets"
	"github.com/gekko3d/orrery/orreryrt/rt/core"
	"github.com/gekko3d/orrery/orreryrt/rt/gpu"
	"github.com/gekko3d/orrery/orreryrt/rt/platform"
	"github.com/gekko3d/orrery/orreryrt/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
)

type App struct {
	Config *orrery.Config
	Log    orrery.Logger
	Window *platform.Window

	Instance      *wgpu.Instance
	Adapter       *wgpu.Adapter
	Device        *wgpu.Device
	Queue         *wgpu.Queue
	Surface       *wgpu.Surface
	SurfaceConfig *wgpu.SurfaceConfiguration
	// SkippedFrames counts frames dropped because the surface had no
	// texture to hand out.
	SkippedFrames uint64

	Pipeline *gpu.BodyPipeline
	Manager  *gpu.Manager
	Depth    *gpu.DepthTarget

	Scene    *core.Scene
	Library  *assets.Library
	Controls *Controls
	Profiler *Profiler

	ClearColor wgpu.Color

	frames         frameSurface
	minimized      bool
	pendingPresent bool
	fpsFrames      int
	fpsTime        float64
}

// frameSurface is the part of *wgpu.Surface touched once per frame.
type frameSurface interface {
	GetCurrentTexture() (*wgpu.Texture, error)
	Configure(adapter *wgpu.Adapter, device *wgpu.Device, config *wgpu.SurfaceConfiguration)
	Present()
}

func NewApp(cfg *orrery.Config, window *platform.Window, log orrery.Logger) *App {
	return &App{
		Config:     cfg,
		Log:        orrery.LoggerOrNop(log),
		Window:     window,
		Library:    assets.NewLibrary(),
		Profiler:   NewProfiler(),
		ClearColor: wgpu.Color{R: 0, G: 0, B: 0.02, A: 1},
	}
}

func (a *App) Init() error {
	var err error
	a.Scene, err = BuildScene(a.Config, a.Library, a.Log)
	if err != nil {
		return err
	}
	a.Controls = NewControls(a.Scene, a.Log)

	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window.Handle()))
	a.frames = a.Surface

	a.Adapter, err = a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return orrery.PlatformInitf(err, "request adapter")
	}
	a.Device, err = a.Adapter.RequestDevice(nil)
	if err != nil {
		return orrery.PlatformInitf(err, "request device")
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.FramebufferSize()
	caps := a.Surface.GetCapabilities(a.Adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return orrery.PlatformInitf(nil, "surface reports no formats")
	}
	present := wgpu.PresentModeFifo
	if !a.Config.Window.VSync {
		present = wgpu.PresentModeImmediate
		if !hasPresentMode(caps.PresentModes, present) {
			present = wgpu.PresentModeFifo
		}
	}
	a.SurfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: present,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(a.Adapter, a.Device, a.SurfaceConfig)
	a.Log.Infof("surface %dx%d format=%v present=%v", width, height, a.SurfaceConfig.Format, present)

	source, err := shaders.Load(a.Config.Shader.Path)
	if err != nil {
		return err
	}
	a.Pipeline, err = gpu.NewBodyPipeline(a.Device, source, a.SurfaceConfig.Format)
	if err != nil {
		return err
	}
	a.Manager, err = gpu.NewManager(a.Device, a.Pipeline)
	if err != nil {
		return err
	}

	for _, m := range a.Scene.Meshes() {
		if err := a.Manager.UploadMesh(m); err != nil {
			return fmt.Errorf("failed to upload %s: %w", m, err)
		}
	}
	for _, id := range a.Library.Ids() {
		img, _ := a.Library.Image(id)
		if err := a.Manager.UploadTexture(id, img); err != nil {
			// The manager falls back to its blank texture for this id.
			a.Log.Warnf("texture %s: %v", img.Path, err)
			continue
		}
		a.Library.Forget(id)
	}

	a.Resize(width, height)
	a.Window.SetResizeHandler(a.Resize)
	a.Window.SetPresentHook(a.Present)
	a.fpsTime = a.Window.Now()
	return nil
}

func hasPresentMode(modes []wgpu.PresentMode, want wgpu.PresentMode) bool {
	for _, m := range modes {
		if m == want {
			return true
		}
	}
	return false
}

// Resize reconfigures the surface and depth target. Zero sizes are ignored
// until the window is restored.
func (a *App) Resize(width, height int) {
	a.minimized = width <= 0 || height <= 0
	if a.minimized {
		return
	}
	a.Scene.Camera.SetAspect(width, height)
	if a.Device == nil {
		return
	}

	a.SurfaceConfig.Width = uint32(width)
	a.SurfaceConfig.Height = uint32(height)
	a.frames.Configure(a.Adapter, a.Device, a.SurfaceConfig)

	if a.Depth != nil {
		a.Depth.Release()
	}
	depth, err := gpu.NewDepthTarget(a.Device, uint32(width), uint32(height))
	if err != nil {
		a.Log.Errorf("resize %dx%d: %v", width, height, err)
		a.Depth = nil
		return
	}
	a.Depth = depth
}

// Step is the fixed rate simulation step.
func (a *App) Step(dt float64) {
	a.Profiler.Begin("step")
	a.Scene.Step(dt)
	a.Profiler.End("step")
}

// Render draws the scene blended alpha of the way from the previous step to
// the current one. It reads the scene and never mutates it.
func (a *App) Render(alpha float32) error {
	if a.Depth == nil {
		return nil
	}
	a.Profiler.Begin("render")
	defer a.Profiler.End("render")

	nextTexture := a.acquireFrame()
	if nextTexture == nil {
		return nil
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: a.ClearColor,
		}},
		DepthStencilAttachment: a.Depth.Attachment(),
	})
	defer pass.Release()

	viewProj := a.Scene.Camera.ViewProjection(alpha)
	light := LightPosition(a.Scene, alpha)
	renderables := a.Scene.Renderables()
	a.Profiler.SetCount("draws", len(renderables))
	for i, r := range renderables {
		err := a.Manager.Draw(pass, gpu.DrawCall{
			Renderable: r,
			ViewProj:   viewProj,
			LightPos:   light,
			Emissive:   r.Emissive,
			Alpha:      alpha,
		})
		if err != nil {
			_ = pass.End()
			return fmt.Errorf("failed to draw %s: %w", a.Scene.Bodies[i].Name, err)
		}
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("failed to end render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish encoder: %w", err)
	}
	defer cmd.Release()
	a.Queue.Submit(cmd)
	a.pendingPresent = true

	a.countFrame()
	return nil
}

// acquireFrame returns nil when the surface hands out no texture (timeout,
// outdated or lost). The frame is skipped and, unless the window is
// minimised, the surface is reconfigured for the next one.
func (a *App) acquireFrame() *wgpu.Texture {
	tex, err := a.frames.GetCurrentTexture()
	if err == nil {
		return tex
	}
	a.SkippedFrames++
	a.Log.Debugf("skipping frame: %v", err)
	if !a.minimized && a.SurfaceConfig != nil && a.SurfaceConfig.Width > 0 && a.SurfaceConfig.Height > 0 {
		a.frames.Configure(a.Adapter, a.Device, a.SurfaceConfig)
	}
	return nil
}

// Present is the window's swap hook.
func (a *App) Present() {
	if !a.pendingPresent {
		return
	}
	a.frames.Present()
	a.pendingPresent = false
}

func (a *App) countFrame() {
	a.fpsFrames++
	now := a.Window.Now()
	if elapsed := now - a.fpsTime; elapsed >= 1 {
		if a.Log.DebugEnabled() {
			a.Log.Debugf("fps=%.1f steps=%d sim=%.0fs %s",
				float64(a.fpsFrames)/elapsed, a.Scene.Steps, a.Scene.SimTime, a.Profiler.Summary())
		}
		a.Profiler.Reset()
		a.fpsFrames = 0
		a.fpsTime = now
	}
}

// Release frees GPU resources. It must run before platform.Terminate.
func (a *App) Release() {
	if a.Manager != nil {
		a.Manager.Release()
		a.Manager = nil
	}
	if a.Pipeline != nil {
		a.Pipeline.Release()
		a.Pipeline = nil
	}
	if a.Depth != nil {
		a.Depth.Release()
		a.Depth = nil
	}
	if a.Scene != nil {
		a.Scene.Close()
	}
	if a.Surface != nil {
		a.Surface.Release()
		a.Surface = nil
		a.frames = nil
	}
	if a.Queue != nil {
		a.Queue.Release()
		a.Queue = nil
	}
	if a.Device != nil {
		a.Device.Release()
		a.Device = nil
	}
	if a.Adapter != nil {
		a.Adapter.Release()
		a.Adapter = nil
	}
	if a.Instance != nil {
		a.Instance.Release()
		a.Instance = nil
	}
}
