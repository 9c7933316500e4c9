package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the probe configuration")
	address := flag.String("address", orgbDefaultAddress, "OpenRGB SDK server address")
	deviceName := flag.String("device", "", "pick the controller whose name contains this string")
	once := flag.Bool("once", false, "classify a single frame and exit, no device needed")
	debug := flag.Bool("debug", false, "show a live window with probe overlay")
	wholeRender := flag.Bool("wholerender", false, "debug window shows the whole emulator render (needs -debug)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if err := run(*configPath, *address, *deviceName, *once, *debug, *wholeRender); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(configPath, address, deviceName string, once, debug, wholeRender bool) error {
	cfg, err := loadConfig(configPath)
	if errors.Is(err, os.ErrNotExist) {
		if werr := os.WriteFile(configPath, exampleConfig, 0644); werr != nil {
			return fmt.Errorf("write example config: %w", werr)
		}
		return fmt.Errorf("no config found, wrote an example to %s - adjust the probes and run again", configPath)
	}
	if err != nil {
		return err
	}

	src, err := newScreenGrabber(cfg.ScreenshotCommand)
	if err != nil {
		return err
	}

	if once {
		return classifyOnce(src, cfg)
	}

	client, err := dialOpenRGB(address, "mphrgb")
	if err != nil {
		return err
	}
	defer client.Close()

	ctrl, err := pickController(client, deviceName)
	if err != nil {
		return err
	}
	log.Info().Str("device", ctrl.Name).Int("leds", ctrl.LEDs).Msg("driving controller")

	dev := &deviceLight{client: client, ctrl: ctrl}
	if err := dev.SetColor(Color{}); err != nil {
		return fmt.Errorf("blank device at startup: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("interrupted, shutting down")
		close(stop)
	}()

	warnWholeRenderWithoutDebug(wholeRender, debug)
	var dbg *debugWindow
	if debug {
		dbg = newDebugWindow(wholeRender)
		defer dbg.close()
	}

	return runLoop(src, dev, cfg, stop, dbg)
}

// classifyOnce grabs one frame and logs the classification, for probe
// tuning without an OpenRGB server around.
func classifyOnce(src FrameSource, cfg *Config) error {
	frame, err := src.Grab()
	if err != nil {
		return fmt.Errorf("acquire frame: %w", err)
	}
	state := classifyFrame(frame, cfg)
	log.Info().
		Str("hunter", noneOr(state.Hunter)).
		Str("weapon", noneOr(state.Weapon)).
		Msg("classified frame")
	return nil
}

// pickController selects the controller to drive: by the -device substring
// when given, automatically when only one exists, otherwise by asking.
func pickController(client *openRGBClient, substring string) (rgbController, error) {
	controllers, err := client.Controllers()
	if err != nil {
		return rgbController{}, fmt.Errorf("list controllers: %w", err)
	}
	if len(controllers) == 0 {
		return rgbController{}, fmt.Errorf("OpenRGB reports no controllers")
	}

	if substring != "" {
		if ctrl, ok := matchController(controllers, substring); ok {
			return ctrl, nil
		}
		return rgbController{}, fmt.Errorf("no controller name contains %q", substring)
	}
	if len(controllers) == 1 {
		return controllers[0], nil
	}

	for i, ctrl := range controllers {
		fmt.Printf("%3d: %s (%d LEDs)\n", i, ctrl.Name, ctrl.LEDs)
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("controller number or name: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return rgbController{}, fmt.Errorf("read selection: %w", err)
			}
			return rgbController{}, fmt.Errorf("no controller selected")
		}
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" {
			continue
		}
		if n, err := strconv.Atoi(entry); err == nil {
			if n >= 0 && n < len(controllers) {
				return controllers[n], nil
			}
			fmt.Printf("no controller %d\n", n)
			continue
		}
		if ctrl, ok := matchController(controllers, entry); ok {
			return ctrl, nil
		}
		fmt.Printf("no controller name contains %q\n", entry)
	}
}

func warnWholeRenderWithoutDebug(wholeRender, debug bool) {
	if wholeRender && !debug {
		log.Warn().Msg("-wholerender has no effect without -debug")
	}
}

func matchController(controllers []rgbController, substring string) (rgbController, bool) {
	for _, ctrl := range controllers {
		if strings.Contains(strings.ToLower(ctrl.Name), strings.ToLower(substring)) {
			return ctrl, true
		}
	}
	return rgbController{}, false
}
