package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	"git.c3pb.de/farhaven/solarsystem/orrery"
	"git.c3pb.de/farhaven/solarsystem/scene"
)

// newTestContext builds a draw context without a window, enough for the
// input handlers.
func newTestContext() (*DrawContext, *orrery.Orrery) {
	o := orrery.New()
	o.Tick(0)
	sc := scene.Assemble(scene.Config{Assets: "img"}, o.Snapshot())

	return &DrawContext{
		width:  1440,
		height: 900,
		cmd:    make(chan DrawCommand, 8),
		o:      o,
		sc:     sc,
		cam:    NewCamera(sc.Camera, 1440, 900),
		panel:  NewPanel(o, orrery.Kinds(), 1440),
	}, o
}

func TestCameraInputDroppedWhilePaused(t *testing.T) {
	ctx, o := newTestContext()
	ctx.pointerMoved(720, 450)

	o.TogglePause()
	ctx.pointer.left = true
	for i := 0; i < 1000; i++ {
		ctx.pointerMoved(720+float64(i%50), 450)
	}
	ctx.steer(cameraCommandZoom{Steps: 3})

	if n := len(ctx.cam.cmds); n != 0 {
		t.Fatalf(`%d camera commands queued while paused`, n)
	}

	o.TogglePause()
	ctx.cam.Update()
	if d := ctx.cam.Distance(); math.Abs(d-100) > 1e-9 {
		t.Errorf(`camera moved to distance %f on resume`, d)
	}

	ctx.pointerMoved(800, 450)
	if n := len(ctx.cam.cmds); n != 1 {
		t.Errorf(`expected the drag to reach the camera after resuming, %d queued`, n)
	}
}

func TestPointerTooltip(t *testing.T) {
	ctx, _ := newTestContext()

	ctx.pointerMoved(720, 450)
	if !ctx.tooltip.Visible || ctx.tooltip.Text != "Sun" {
		t.Errorf(`expected the sun tooltip, got %+v`, ctx.tooltip)
	}

	ctx.pointerMoved(5, 5)
	if ctx.tooltip.Visible {
		t.Errorf(`tooltip visible over empty space: %+v`, ctx.tooltip)
	}
}

func TestKeys(t *testing.T) {
	ctx, o := newTestContext()

	ctx.key(glfw.KeyH)
	ctx.key(glfw.KeySpace)
	ctx.key(glfw.KeyX)
	if !ctx.handleCommands() {
		t.Fatalf(`quit without asking`)
	}
	if !ctx.showHelp {
		t.Errorf(`help not shown`)
	}
	if !o.Paused() {
		t.Errorf(`space didn't pause`)
	}

	ctx.key(glfw.KeyEscape)
	if ctx.handleCommands() {
		t.Errorf(`escape didn't quit`)
	}
}

func TestHelpLines(t *testing.T) {
	lines := helpLines()
	if len(lines) != len(keyBindings)+len(pointerHelp) {
		t.Errorf(`%d help lines`, len(lines))
	}

	for _, want := range []string{"Esc", "Space", "Wheel"} {
		found := false
		for _, l := range lines {
			found = found || strings.Contains(l, want)
		}
		if !found {
			t.Errorf(`no help for %s`, want)
		}
	}
}
