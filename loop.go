package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// runLoop polls frames and mirrors weapon changes onto the device. It only
// touches the device on transitions; identical classifications across
// iterations are silent. Any acquisition or device error ends the loop.
// Closing stop ends it cleanly between iterations.
func runLoop(src FrameSource, dev ColorSetter, cfg *Config, stop <-chan struct{}, dbg *debugWindow) error {
	var prev State
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		frame, err := src.Grab()
		if err != nil {
			return fmt.Errorf("acquire frame: %w", err)
		}
		hud := normalizeFrame(frame, false, cfg.EmuMenubarHeight)

		hunter := activeHunter(hud, cfg)
		if hunter != prev.Hunter {
			log.Info().Str("hunter", noneOr(hunter)).Msg("hunter changed")
			prev.Hunter = hunter
		}

		var weapon string
		if hunter != "" {
			weapon = activeWeapon(hud, cfg, hunter)
		}
		if weapon != prev.Weapon {
			prev.Weapon = weapon
			show := Color{}
			if weapon != "" {
				show = cfg.WeaponColorsShow[weapon]
			}
			log.Info().Str("weapon", noneOr(weapon)).
				Floats64("color", show[:]).Msg("weapon changed")
			if err := dev.SetColor(show); err != nil {
				return fmt.Errorf("update device color: %w", err)
			}
		}

		if dbg != nil && dbg.show(frame, hud, cfg, hunter, weapon) {
			return nil
		}
	}
}

func noneOr(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
