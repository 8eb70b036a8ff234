package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/skyburst/fireworks"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	headless := flag.Bool("headless", false, "Run without a window, GPU or audio")
	frames := flag.Int("frames", 240, "Frames to run in headless mode")
	clicks := flag.Int("clicks", -1, "Bursts to trigger without a click (default 3 when headless, 0 otherwise)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg := fireworks.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = fireworks.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fireworks: %v\n", err)
			os.Exit(1)
		}
	}
	if *debug {
		cfg.Debug = true
	}
	if *headless && cfg.FixedStep == 0 {
		cfg.FixedStep = fireworks.DefaultFixedStep
	}

	app := fireworks.NewFireworksApp(cfg, *headless)
	trigger := fireworks.Resource[fireworks.Trigger](app)

	n := startupClicks(*headless, *clicks)
	if !*headless {
		for i := 0; i < n; i++ {
			trigger.Request()
		}
		app.Run()
		return
	}

	report := fireworks.RunHeadless(app, *frames, n)
	app.Logger().Infof("Spawned %d bursts, finished %d, %d still attached after %d frames",
		report.Spawned, report.Finished, report.Attached, report.Frames)
	if report.Leaked() {
		os.Exit(2)
	}
}

// defaultHeadlessClicks is how many bursts a headless run fires when -clicks
// is not given.
const defaultHeadlessClicks = 3

// startupClicks resolves -clicks. A windowed run only bursts on real clicks
// unless asked otherwise.
func startupClicks(headless bool, clicks int) int {
	if clicks >= 0 {
		return clicks
	}
	if headless {
		return defaultHeadlessClicks
	}
	return 0
}
