package main

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

// rawTestFrame builds a full 3x2 emulator composite with the HUD panel in
// the bottom-right; paintHud places probes in HUD panel coordinates.
func rawTestFrame() *image.RGBA {
	return solidFrame(emuDispWidth, emuDispHeight, color.RGBA{0, 0, 0, 255})
}

func paintHud(img *image.RGBA, at Coord, c Color) {
	paint(img, Coord{at[0] + 2*dsScreenWidth, at[1] + dsScreenHeight}, c)
}

func samusPowerFrame() *image.RGBA {
	frame := rawTestFrame()
	paintHud(frame, samusHud, Color{0, 255, 0})
	paintHud(frame, powerSlot, Color{255, 255, 255})
	return frame
}

func samusMissileFrame() *image.RGBA {
	frame := rawTestFrame()
	paintHud(frame, samusHud, Color{0, 255, 0})
	paintHud(frame, missileSlot, Color{255, 255, 255})
	return frame
}

// scriptedSource serves the scripted frames in order, then keeps serving
// the last one and closes stop so the loop winds down.
type scriptedSource struct {
	frames []image.Image
	next   int
	stop   chan struct{}
	err    error
}

func (s *scriptedSource) Grab() (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.next >= len(s.frames) {
		select {
		case <-s.stop:
		default:
			close(s.stop)
		}
		return s.frames[len(s.frames)-1], nil
	}
	frame := s.frames[s.next]
	s.next++
	return frame, nil
}

type recordingSetter struct {
	colors  []Color
	failAt  int // 1-based call index to fail on, 0 = never
	callErr error
}

func (r *recordingSetter) SetColor(c Color) error {
	r.colors = append(r.colors, c)
	if r.failAt != 0 && len(r.colors) == r.failAt {
		return r.callErr
	}
	return nil
}

func runScript(t *testing.T, frames ...image.Image) *recordingSetter {
	t.Helper()
	src := &scriptedSource{frames: frames, stop: make(chan struct{})}
	dev := &recordingSetter{}
	if err := runLoop(src, dev, testConfig(), src.stop, nil); err != nil {
		t.Fatalf("runLoop: %v", err)
	}
	return dev
}

func TestLoopEmitsOnlyOnTransition(t *testing.T) {
	dev := runScript(t,
		rawTestFrame(),      // none, same as initial state: silent
		samusPowerFrame(),   // power: one update
		samusPowerFrame(),   // unchanged: silent
		samusPowerFrame(),   // unchanged: silent
		samusMissileFrame(), // missile: one update
		rawTestFrame(),      // back to none: lights off once
		rawTestFrame(),      // still none: silent
	)

	want := []Color{{255, 214, 0}, {222, 33, 66}, {}}
	if len(dev.colors) != len(want) {
		t.Fatalf("device updated %d times (%v), want %d", len(dev.colors), dev.colors, len(want))
	}
	for i, c := range want {
		if dev.colors[i] != c {
			t.Errorf("update %d = %v, want %v", i, dev.colors[i], c)
		}
	}
}

func TestLoopOffColorOnLostHud(t *testing.T) {
	dev := runScript(t, samusPowerFrame(), rawTestFrame())
	if len(dev.colors) != 2 {
		t.Fatalf("device updated %d times, want 2", len(dev.colors))
	}
	if dev.colors[1] != (Color{}) {
		t.Errorf("losing the HUD must blank the device, got %v", dev.colors[1])
	}
}

func TestLoopStopsWithoutDeviceCall(t *testing.T) {
	src := &scriptedSource{frames: []image.Image{rawTestFrame()}, stop: make(chan struct{})}
	dev := &recordingSetter{}
	if err := runLoop(src, dev, testConfig(), src.stop, nil); err != nil {
		t.Fatalf("runLoop: %v", err)
	}
	if len(dev.colors) != 0 {
		t.Errorf("no transition happened, device got %v", dev.colors)
	}
}

func TestLoopGrabErrorIsFatal(t *testing.T) {
	grabErr := errors.New("spectacle exploded")
	src := &scriptedSource{err: grabErr, stop: make(chan struct{})}
	err := runLoop(src, &recordingSetter{}, testConfig(), src.stop, nil)
	if !errors.Is(err, grabErr) {
		t.Fatalf("runLoop error = %v, want wrapped %v", err, grabErr)
	}
	if !strings.Contains(err.Error(), "acquire frame") {
		t.Errorf("error %q should mention frame acquisition", err)
	}
}

func TestLoopSetColorErrorIsFatal(t *testing.T) {
	devErr := errors.New("device unplugged")
	src := &scriptedSource{frames: []image.Image{samusPowerFrame()}, stop: make(chan struct{})}
	dev := &recordingSetter{failAt: 1, callErr: devErr}
	err := runLoop(src, dev, testConfig(), src.stop, nil)
	if !errors.Is(err, devErr) {
		t.Fatalf("runLoop error = %v, want wrapped %v", err, devErr)
	}
}
