package app

import (
	"math"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/assets"
	"github.com/gekko3d/orrery/orreryrt/rt/core"
	"github.com/gekko3d/orrery/orreryrt/rt/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type meshKey struct {
	stacks, sectors int
}

// BuildScene turns a validated config into a scene. Bodies sharing a sphere
// resolution share one unit mesh; each renderable scales it to the body's
// display radius. Texture failures are logged and the body stays untextured.
func BuildScene(cfg *orrery.Config, lib *assets.Library, log orrery.Logger) (*core.Scene, error) {
	log = orrery.LoggerOrNop(log)
	sim := cfg.Simulation

	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	cam := cfg.Camera
	camera, err := core.NewCamera(
		mgl32.DegToRad(cam.FovDegrees), aspect, cam.Near, cam.Far,
		core.HighPVec3(cam.Position),
		mgl32.Vec3(cam.Target), mgl32.Vec3(cam.Up),
		sim.ScaleFactor,
	)
	if err != nil {
		return nil, err
	}

	scene, err := core.NewScene(camera, sim.ScaleFactor)
	if err != nil {
		return nil, err
	}
	scene.TimeScale = sim.TimeScale

	meshes := make(map[meshKey]*mesh.Mesh)
	for _, bc := range parentFirst(cfg.Bodies) {
		key := meshKey{bc.Stacks, bc.Sectors}
		m, ok := meshes[key]
		if !ok {
			m, err = mesh.BuildSphere(1, bc.Stacks, bc.Sectors)
			if err != nil {
				return nil, err
			}
			meshes[key] = m
			log.Debugf("built sphere %dx%d: %s", bc.Stacks, bc.Sectors, m)
		}

		r := core.NewRenderable(m)
		r.Color = mgl32.Vec4(bc.Color)
		r.Emissive = bc.Emissive
		s := float32(bc.Radius * bc.DisplayScale / sim.ScaleFactor)
		r.Scale.Reset(mgl32.Vec3{s, s, s})

		if bc.Texture != "" && lib != nil {
			id, err := lib.Load(bc.Texture, samplerOptions(bc.Sampler))
			if err != nil {
				log.Warnf("body %s: texture unavailable, drawing untextured: %v", bc.Name, err)
			} else {
				r.Texture = id
			}
		}

		body, err := core.NewPhysicsBody(bc.Name, r,
			core.HighPVec3(bc.Position), core.HighPVec3(bc.Rotation),
			bc.Mass, sim.ScaleFactor)
		if err != nil {
			return nil, err
		}
		if bc.SpinPeriod != 0 {
			body.SpinRate = 2 * math.Pi / bc.SpinPeriod
		}
		if oc := bc.Orbit; oc != nil {
			parent := scene.Body(oc.Parent)
			if parent == nil {
				return nil, orrery.InvalidArgumentf("body %q orbits unknown parent %q", bc.Name, oc.Parent)
			}
			body.Orbit = &core.Orbit{
				Parent:       parent,
				Radius:       oc.Radius,
				AngularSpeed: 2 * math.Pi / oc.Period,
				Angle:        mgl64.DegToRad(oc.Phase),
				Inclination:  mgl64.DegToRad(oc.Inclination),
			}
			body.Teleport(parent.Position.Add(body.Orbit.Offset()), body.Rotation)
		}

		if err := scene.AddBody(body); err != nil {
			return nil, err
		}
	}

	log.Infof("built %s", scene)
	return scene, nil
}

// parentFirst orders bodies so every orbit parent precedes its children,
// keeping file order otherwise. Config validation guarantees no cycles.
func parentFirst(bodies []orrery.BodyConfig) []orrery.BodyConfig {
	placed := make(map[string]bool, len(bodies))
	out := make([]orrery.BodyConfig, 0, len(bodies))
	for len(out) < len(bodies) {
		progressed := false
		for _, b := range bodies {
			if placed[b.Name] {
				continue
			}
			if b.Orbit != nil && !placed[b.Orbit.Parent] {
				continue
			}
			placed[b.Name] = true
			out = append(out, b)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}

func samplerOptions(c orrery.SamplerConfig) assets.SamplerOptions {
	return assets.SamplerOptions{
		WrapU:     assets.WrapMode(c.WrapU),
		WrapV:     assets.WrapMode(c.WrapV),
		MinFilter: assets.FilterMode(c.MinFilter),
		MagFilter: assets.FilterMode(c.MagFilter),
	}.WithDefaults()
}

// LightPosition is the blended position of the first emissive body, or the
// origin when the scene has none.
func LightPosition(scene *core.Scene, alpha float32) mgl32.Vec4 {
	for _, b := range scene.Bodies {
		if b.Renderable.Emissive {
			return b.RenderPosition(alpha).Vec4(1)
		}
	}
	return mgl32.Vec4{0, 0, 0, 1}
}
