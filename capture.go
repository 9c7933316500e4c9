package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os/exec"
	"strings"
)

// screenGrabber acquires frames by running an external screenshot command
// that writes an image to stdout (spectacle on KDE by default). Capture
// stays outside the process so the tool doesn't care which compositor or
// protocol is in use.
type screenGrabber struct {
	args []string
}

func newScreenGrabber(command string) (*screenGrabber, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, fmt.Errorf("screenshot command is empty")
	}
	return &screenGrabber{args: args}, nil
}

func (g *screenGrabber) Grab() (image.Image, error) {
	out, err := exec.Command(g.args[0], g.args[1:]...).Output()
	if err != nil {
		return nil, fmt.Errorf("screenshot command %s: %w", g.args[0], err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot output: %w", err)
	}
	return img, nil
}
