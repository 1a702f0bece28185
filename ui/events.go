package ui

import (
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func (ctx *DrawContext) setCallbacks() {
	ctx.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		ctx.resize(width, height)
	})
	ctx.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	ctx.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		ctx.pointerMoved(x, y)
	})
	ctx.win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, a glfw.Action, _ glfw.ModifierKey) {
		ctx.mouseButton(b, a)
	})
	ctx.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		ctx.steer(cameraCommandZoom{Steps: yoff})
	})
	ctx.win.SetKeyCallback(func(_ *glfw.Window, k glfw.Key, _ int, a glfw.Action, _ glfw.ModifierKey) {
		if a == glfw.Press {
			ctx.key(k)
		}
	})
}

type keyBinding struct {
	keys []glfw.Key
	help string
	run  func(ctx *DrawContext)
}

var keyBindings = []keyBinding{
	{[]glfw.Key{glfw.KeyQ, glfw.KeyEscape}, "Q, Esc: quit", func(ctx *DrawContext) { ctx.QueueCommand(DRAW_QUIT) }},
	{[]glfw.Key{glfw.KeyF}, "F: fullscreen", func(ctx *DrawContext) { ctx.QueueCommand(DRAW_FULLSCREEN) }},
	{[]glfw.Key{glfw.KeySpace}, "Space: pause or resume", func(ctx *DrawContext) { ctx.QueueCommand(DRAW_TOGGLE_PAUSE) }},
	{[]glfw.Key{glfw.KeyR}, "R: reset the camera", func(ctx *DrawContext) { ctx.steer(cameraCommandReset{}) }},
	{[]glfw.Key{glfw.KeyH}, "H: show or hide this help", func(ctx *DrawContext) { ctx.QueueCommand(DRAW_TOGGLE_HELP) }},
}

var pointerHelp = []string{
	"Left drag: rotate",
	"Right drag: pan",
	"Wheel: zoom",
	"Hover a body for its name",
}

func helpLines() []string {
	r := []string{}
	for _, b := range keyBindings {
		r = append(r, b.help)
	}
	return append(r, pointerHelp...)
}

func (ctx *DrawContext) key(k glfw.Key) {
	for _, b := range keyBindings {
		for _, bk := range b.keys {
			if bk == k {
				b.run(ctx)
				return
			}
		}
	}
}

func (ctx *DrawContext) resize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized.
		return
	}
	ctx.width, ctx.height = width, height
	ctx.cam.SetSize(width, height)
	ctx.panel.Layout(width)
}

func (ctx *DrawContext) pointerMoved(x, y float64) {
	dx, dy := x-ctx.pointer.x, y-ctx.pointer.y
	ctx.pointer.x, ctx.pointer.y = x, y

	switch {
	case ctx.panel.Drag(x):
	case ctx.pointer.left:
		ctx.steer(cameraCommandRotate{X: dx, Y: dy})
	case ctx.pointer.right:
		ctx.steer(cameraCommandPan{X: dx, Y: dy})
	}

	ctx.pick()
}

// steer passes camera input on. The view is frozen while paused, so input
// arriving then is dropped instead of piling up for the resume.
func (ctx *DrawContext) steer(cmd cameraCommand) {
	if ctx.o.Paused() {
		return
	}
	ctx.cam.QueueCommand(cmd)
}

// pick updates the tooltip for the current pointer position.
func (ctx *DrawContext) pick() {
	x, y := ctx.pointer.x, ctx.pointer.y
	if ctx.panel.Covers(x, y) {
		ctx.tooltip.Hide()
		return
	}

	ray := ctx.cam.Ray(ctx.cam.NDC(x, y))
	ctx.tooltip.Update(ctx.sc.Pick(ray), x, y)
}

func (ctx *DrawContext) mouseButton(b glfw.MouseButton, a glfw.Action) {
	x, y := ctx.pointer.x, ctx.pointer.y

	switch b {
	case glfw.MouseButtonLeft:
		if a == glfw.Press {
			ctx.pointer.left = !ctx.panel.Press(x, y)
			return
		}
		ctx.pointer.left = false
		ctx.panel.Release()
	case glfw.MouseButtonRight:
		ctx.pointer.right = a == glfw.Press && !ctx.panel.Covers(x, y)
	}
}
