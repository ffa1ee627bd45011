package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/app"
	"github.com/gekko3d/orrery/orreryrt/rt/loop"
	"github.com/gekko3d/orrery/orreryrt/rt/platform"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	scenePath := flag.String("scene", "", "Scene YAML file (default: built-in solar system)")
	debug := flag.Bool("debug", false, "Enable debug logging (FPS and step counts)")
	flag.Parse()

	if err := run(*scenePath, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "orrery: %v\n", err)
		os.Exit(1)
	}
}

func run(scenePath string, debug bool) error {
	var (
		cfg *orrery.Config
		err error
	)
	// The configured logger needs the config; this one covers loading it.
	boot := orrery.NewDefaultLogger("orrery", debug)
	defer boot.Sync()
	if scenePath != "" {
		boot.Debugf("loading scene %s", scenePath)
		cfg, err = orrery.LoadConfig(scenePath)
	} else {
		boot.Debugf("using built-in scene")
		cfg, err = orrery.DefaultSceneConfig()
	}
	if err != nil {
		return err
	}

	log, err := orrery.NewLogger(orrery.LogOptions{
		Prefix:   cfg.Log.Prefix,
		Debug:    debug || cfg.Log.Level == "debug",
		Encoding: cfg.Log.Encoding,
	})
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Infof("config: %s", cfg)

	if err := platform.Init(); err != nil {
		return err
	}
	defer platform.Terminate()

	window, err := platform.NewWindow(cfg.Window, log)
	if err != nil {
		return err
	}
	defer window.Destroy()

	application := app.NewApp(cfg, window, log)
	defer application.Release()
	if err := application.Init(); err != nil {
		return err
	}

	driver, err := loop.NewDriverWithClamp(cfg.Simulation.TickRate, cfg.Simulation.MaxFrameTime)
	if err != nil {
		return err
	}

	err = driver.Run(app.WithInput(window, application.Controls.HandleKey), application, application)
	stats := driver.Stats()
	log.Infof("stopped after %d frames, %d steps", stats.Frames, stats.Steps)
	return err
}
