package main

import "image"

// classifyFrame runs the whole pipeline on one raw capture: normalize to
// the HUD panel, detect the hunter, then the weapon from the same frame.
func classifyFrame(frame image.Image, cfg *Config) State {
	hud := normalizeFrame(frame, false, cfg.EmuMenubarHeight)
	hunter := activeHunter(hud, cfg)
	var weapon string
	if hunter != "" {
		weapon = activeWeapon(hud, cfg, hunter)
	}
	return State{Hunter: hunter, Weapon: weapon}
}

// activeHunter returns the name of the hunter whose HUD is on screen, or
// "" when no HUD probe matches (menus, map, loading). The first matching
// hunter in config order wins.
func activeHunter(img image.Image, cfg *Config) string {
	for _, name := range cfg.hunterOrder {
		spec := cfg.HunterSpecs[name]
		if senseColor(img, spec.IsHudCoords, spec.IsHudColor, cfg) {
			return name
		}
	}
	return ""
}

// activeWeapon returns the weapon currently equipped by the given hunter,
// or "" when no weapon UI is visible. Pass hunter as "" to detect it from
// the same frame first.
func activeWeapon(img image.Image, cfg *Config, hunter string) string {
	if hunter == "" {
		hunter = activeHunter(img, cfg)
	}
	if hunter == "" {
		return ""
	}
	spec := cfg.HunterSpecs[hunter]

	// Unlike the HUD probe, a later matching slot overrides an earlier
	// one. Some hunters' zoom/alt overlays light up earlier slot probes
	// spuriously, and the later coordinates are the more specific state.
	mainWeapon := ""
	for _, weapon := range spec.mainWeaponOrder {
		if senseColor(img, spec.MainWeaponCoords[weapon], spec.MainWeaponSenseColor, cfg) {
			mainWeapon = weapon
		}
	}
	if mainWeapon == "" {
		// No slot is lit at all, probably the map screen.
		return ""
	}
	if mainWeapon != thirdWeaponSlot {
		return mainWeapon
	}

	// The third slot holds one of the affinity weapons, each recognized
	// by its own icon color. Same last-match-wins scan.
	thirdWeapon := ""
	for _, weapon := range spec.thirdWeaponOrder {
		if senseColor(img, spec.ThirdWeaponCoords[weapon], spec.ThirdWeaponSenseColors[weapon], cfg) {
			thirdWeapon = weapon
		}
	}
	return thirdWeapon
}
