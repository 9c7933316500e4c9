package main

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConfig []byte

// The main weapon slot that selects one of the hunter-specific affinity
// weapons rather than being a weapon itself.
const thirdWeaponSlot = "third"

const (
	defaultMenubarHeight     = 25
	defaultScreenshotCommand = "spectacle -abne -d 0 -o /proc/self/fd/1"
)

// HunterSpec describes how to recognize one hunter's HUD: a single probe
// that tells us the HUD is on screen at all, a probe per main weapon slot,
// and for the "third" slot a probe per affinity weapon.
type HunterSpec struct {
	IsHudCoords            Coord            `toml:"isHudCoords"`
	IsHudColor             Color            `toml:"isHudColor"`
	MainWeaponCoords       map[string]Coord `toml:"mainWeaponCoords"`
	MainWeaponSenseColor   Color            `toml:"mainWeaponSenseColor"`
	ThirdWeaponCoords      map[string]Coord `toml:"thirdWeaponCoords"`
	ThirdWeaponSenseColors map[string]Color `toml:"thirdWeaponSenseColors"`

	// Probe scan order as written in the config file. TOML maps lose
	// ordering, so these are rebuilt from the decoder metadata.
	mainWeaponOrder  []string
	thirdWeaponOrder []string
}

// Config is loaded once at startup and read-only afterwards.
type Config struct {
	Scale             Coord                  `toml:"scale"`
	ColorTolerance    float64                `toml:"colorTolerance"`
	EmuMenubarHeight  int                    `toml:"emuMenubarHeight"`
	ScreenshotCommand string                 `toml:"screenshotCommand"`
	HunterSpecs       map[string]*HunterSpec `toml:"hunterSpecs"`
	WeaponColorsShow  map[string]Color       `toml:"weaponColorsShow"`

	hunterOrder []string
}

func loadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg.applyDefaults(md)
	cfg.recoverOrder(md)
	if err := cfg.validate(md); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(md toml.MetaData) {
	if !md.IsDefined("emuMenubarHeight") {
		c.EmuMenubarHeight = defaultMenubarHeight
	}
	if c.ScreenshotCommand == "" {
		c.ScreenshotCommand = defaultScreenshotCommand
	}
}

// recoverOrder rebuilds the document order of the hunter and weapon maps
// from the decoder metadata. Classification scans probes in this order, so
// it has to survive the map decode.
func (c *Config) recoverOrder(md toml.MetaData) {
	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "hunterSpecs" {
			continue
		}
		name := key[1]
		spec, ok := c.HunterSpecs[name]
		if !ok {
			continue
		}
		c.hunterOrder = appendOnce(c.hunterOrder, name)
		if len(key) != 4 {
			continue
		}
		switch key[2] {
		case "mainWeaponCoords":
			spec.mainWeaponOrder = appendOnce(spec.mainWeaponOrder, key[3])
		case "thirdWeaponCoords":
			spec.thirdWeaponOrder = appendOnce(spec.thirdWeaponOrder, key[3])
		}
	}
}

func appendOnce(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}

func (c *Config) validate(md toml.MetaData) error {
	if c.Scale[0] <= 0 || c.Scale[1] <= 0 {
		return fmt.Errorf("scale must be two positive numbers, got %v", c.Scale)
	}
	if c.ColorTolerance <= 0 {
		return fmt.Errorf("colorTolerance must be positive, got %v", c.ColorTolerance)
	}
	if c.EmuMenubarHeight < 0 {
		return fmt.Errorf("emuMenubarHeight must not be negative, got %d", c.EmuMenubarHeight)
	}
	if len(c.HunterSpecs) == 0 {
		return fmt.Errorf("no hunterSpecs defined")
	}
	for name, spec := range c.HunterSpecs {
		// A missing probe decodes to coordinate (0,0) and color black,
		// which happily matches dark pixels; reject it up front.
		if !md.IsDefined("hunterSpecs", name, "isHudCoords") ||
			!md.IsDefined("hunterSpecs", name, "isHudColor") {
			return fmt.Errorf("hunter %s has no HUD probe (isHudCoords and isHudColor are required)", name)
		}
		if len(spec.MainWeaponCoords) == 0 {
			return fmt.Errorf("hunter %s has no mainWeaponCoords", name)
		}
		for weapon := range spec.MainWeaponCoords {
			if weapon == thirdWeaponSlot {
				continue
			}
			if _, ok := c.WeaponColorsShow[weapon]; !ok {
				return fmt.Errorf("hunter %s weapon %s has no weaponColorsShow entry", name, weapon)
			}
		}
		for weapon := range spec.ThirdWeaponCoords {
			if _, ok := spec.ThirdWeaponSenseColors[weapon]; !ok {
				return fmt.Errorf("hunter %s third weapon %s has no thirdWeaponSenseColors entry", name, weapon)
			}
			if _, ok := c.WeaponColorsShow[weapon]; !ok {
				return fmt.Errorf("hunter %s third weapon %s has no weaponColorsShow entry", name, weapon)
			}
		}
	}
	return nil
}
