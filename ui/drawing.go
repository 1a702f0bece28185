package ui

import (
	"fmt"
	"image"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"git.c3pb.de/farhaven/solarsystem/orrery"
	"git.c3pb.de/farhaven/solarsystem/scene"
	"git.c3pb.de/farhaven/solarsystem/ui/text"
)

func init() {
	// GLFW and GL calls have to stay on the main thread.
	runtime.LockOSThread()
}

type DrawCommand int

const (
	DRAW_QUIT DrawCommand = iota
	DRAW_FULLSCREEN
	DRAW_TOGGLE_PAUSE
	DRAW_TOGGLE_HELP
)

// FrameObserver is told about every drawn frame.
type FrameObserver interface {
	ObserveFrame(d time.Duration, running bool)
}

type Options struct {
	Width, Height int
	Fullscreen    bool
	// Font is a TrueType file for the overlay. The built-in Go font is used
	// if empty.
	Font     string
	Observer FrameObserver
}

type label struct {
	tex  uint32
	w, h float64
}

type DrawContext struct {
	width, height int
	win           *glfw.Window
	cmd           chan DrawCommand

	o   *orrery.Orrery
	sc  *scene.Scene
	cam *Camera

	panel   *Panel
	tooltip Tooltip
	pointer struct {
		x, y        float64
		left, right bool
	}

	txt    *text.Context
	labels map[string]label

	showHelp bool
	help     label

	textures map[string]uint32
	meshes   map[orrery.Kind]uint32
	rings    []uint32
	skybox   [6]uint32

	fullscreen bool
	windowed   [4]int

	observer FrameObserver
}

// NewDrawContext opens the window and uploads the scene. It has to be called
// from the main goroutine, which then has to call Run.
func NewDrawContext(o *orrery.Orrery, sc *scene.Scene, opts Options) (*DrawContext, error) {
	txt := text.Default()
	if opts.Font != "" {
		var err error
		if txt, err = text.NewContext(opts.Font); err != nil {
			return nil, fmt.Errorf(`can't load font %s: %w`, opts.Font, err)
		}
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf(`can't init GLFW: %w`, err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	w, err := glfw.CreateWindow(opts.Width, opts.Height, sc.Heading, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf(`can't create window: %w`, err)
	}
	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		w.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf(`can't init GL: %w`, err)
	}
	log.Printf(`OpenGL %s on %s`, gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	width, height := w.GetSize()
	ctx := &DrawContext{
		width: width, height: height,
		win:      w,
		cmd:      make(chan DrawCommand, 8),
		o:        o,
		sc:       sc,
		cam:      NewCamera(sc.Camera, width, height),
		panel:    NewPanel(o, orrery.Kinds(), width),
		txt:      txt,
		labels:   map[string]label{},
		textures: map[string]uint32{},
		meshes:   map[orrery.Kind]uint32{},
		observer: opts.Observer,
	}

	ctx.initGL()
	ctx.upload()
	ctx.setCallbacks()

	if opts.Fullscreen {
		ctx.toggleFullscreen()
	}

	return ctx, nil
}

func (ctx *DrawContext) initGL() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ShadeModel(gl.SMOOTH)
	gl.Hint(gl.PERSPECTIVE_CORRECTION_HINT, gl.NICEST)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.MODULATE)

	l := ctx.sc.Light
	ambient := [4]float32{0, 0, 0, 1}
	gl.LightModelfv(gl.LIGHT_MODEL_AMBIENT, &ambient[0])

	i := float32(l.Intensity)
	diffuse := [4]float32{float32(l.Color.R) * i, float32(l.Color.G) * i, float32(l.Color.B) * i, 1}
	gl.Lightfv(gl.LIGHT0, gl.DIFFUSE, &diffuse[0])
	gl.Lightfv(gl.LIGHT0, gl.AMBIENT, &ambient[0])

	// Distance 0: no falloff at all.
	gl.Lightf(gl.LIGHT0, gl.CONSTANT_ATTENUATION, 1)
	if l.Distance > 0 {
		gl.Lightf(gl.LIGHT0, gl.LINEAR_ATTENUATION, float32(1/l.Distance))
	}
	gl.Enable(gl.LIGHT0)

	white := [4]float32{1, 1, 1, 1}
	gl.Materialfv(gl.FRONT, gl.DIFFUSE, &white[0])
	gl.Materialfv(gl.FRONT, gl.AMBIENT, &ambient[0])

	fw, fh := ctx.win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))
}

func uploadTexture(img *image.RGBA, wrap int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.GENERATE_MIPMAP, gl.TRUE)

	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return tex
}

func compile(g *scene.Geometry) uint32 {
	list := gl.GenLists(1)
	gl.NewList(list, gl.COMPILE)
	gl.Begin(gl.TRIANGLES)
	for _, i := range g.Indices {
		n, uv, p := g.Normals[i], g.UVs[i], g.Positions[i]
		gl.Normal3d(n.X, n.Y, n.Z)
		gl.TexCoord2d(uv[0], uv[1])
		gl.Vertex3d(p.X, p.Y, p.Z)
	}
	gl.End()
	gl.EndList()

	return list
}

// upload turns the scene description into textures and display lists.
func (ctx *DrawContext) upload() {
	t := time.Now()

	for p, img := range ctx.sc.LoadTextures() {
		wrap := int32(gl.REPEAT)
		for _, f := range ctx.sc.Skybox.Faces {
			if f == p {
				wrap = gl.CLAMP_TO_EDGE
			}
		}
		ctx.textures[p] = uploadTexture(img, wrap)
	}

	for i, g := range ctx.sc.Skybox.Geom {
		ctx.skybox[i] = compile(g)
	}
	for _, m := range ctx.sc.Meshes {
		ctx.meshes[m.Kind] = compile(m.Geom)
	}
	for _, r := range ctx.sc.Rings {
		ctx.rings = append(ctx.rings, compile(r.Geom))
	}

	log.Printf(`scene uploaded in %s: %d textures, %d meshes, %d rings`, time.Since(t), len(ctx.textures), len(ctx.meshes), len(ctx.rings))
}

func (ctx *DrawContext) bindTexture(path string) {
	if tex, ok := ctx.textures[path]; ok {
		gl.Enable(gl.TEXTURE_2D)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		return
	}
	gl.Disable(gl.TEXTURE_2D)
}

func loadMatrix(m mgl64.Mat4) {
	gl.LoadMatrixd(&m[0])
}

func (ctx *DrawContext) drawSkybox() {
	gl.Disable(gl.LIGHTING)
	gl.CullFace(gl.FRONT)
	defer gl.CullFace(gl.BACK)

	gl.Color3d(1, 1, 1)
	for i, list := range ctx.skybox {
		ctx.bindTexture(ctx.sc.Skybox.Faces[i])
		gl.CallList(list)
	}
}

func (ctx *DrawContext) drawMeshes() {
	gl.Color3d(1, 1, 1)
	for _, m := range ctx.sc.Meshes {
		if ctx.cam.SphereInFrustum(m.Pos, m.Radius) == OUTSIDE {
			continue
		}

		if m.Material == scene.Standard {
			gl.Enable(gl.LIGHTING)
		} else {
			gl.Disable(gl.LIGHTING)
		}
		ctx.bindTexture(m.Texture)

		gl.PushMatrix()
		gl.Translated(m.Pos.X, m.Pos.Y, m.Pos.Z)
		gl.Rotated(mgl64.RadToDeg(m.Rotation), 0, 1, 0)
		gl.CallList(ctx.meshes[m.Kind])
		gl.PopMatrix()
	}
	gl.Disable(gl.LIGHTING)
}

func (ctx *DrawContext) drawRings() {
	gl.Disable(gl.TEXTURE_2D)
	gl.Disable(gl.CULL_FACE)
	defer gl.Enable(gl.CULL_FACE)

	for i, r := range ctx.sc.Rings {
		gl.Color3d(r.Color.R, r.Color.G, r.Color.B)
		gl.PushMatrix()
		gl.Rotated(mgl64.RadToDeg(r.RotationX), 1, 0, 0)
		gl.CallList(ctx.rings[i])
		gl.PopMatrix()
	}
}

func (ctx *DrawContext) drawScene() {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.MatrixMode(gl.PROJECTION)
	loadMatrix(ctx.cam.Projection())
	gl.MatrixMode(gl.MODELVIEW)
	loadMatrix(ctx.cam.View())

	// Transformed by the current modelview, so it has to follow the camera.
	lp := ctx.sc.Light.Pos
	pos := [4]float32{float32(lp.X), float32(lp.Y), float32(lp.Z), 1}
	gl.Lightfv(gl.LIGHT0, gl.POSITION, &pos[0])

	ctx.drawSkybox()
	ctx.drawMeshes()
	ctx.drawRings()
}

// Run drives the frame loop until the window is closed.
func (ctx *DrawContext) Run() {
	for !ctx.win.ShouldClose() {
		start := time.Now()

		glfw.PollEvents()
		if !ctx.handleCommands() {
			break
		}

		running := ctx.o.Tick(glfw.GetTime() * 1000)
		if running {
			ctx.cam.Update()
			ctx.sc.Sync(ctx.o.Snapshot())
		}

		ctx.drawScene()
		ctx.drawOverlay()
		ctx.win.SwapBuffers()

		if ctx.observer != nil {
			ctx.observer.ObserveFrame(time.Since(start), running)
		}
	}
}

func (ctx *DrawContext) handleCommands() bool {
	for {
		select {
		case cmd := <-ctx.cmd:
			switch cmd {
			case DRAW_QUIT:
				return false
			case DRAW_FULLSCREEN:
				ctx.toggleFullscreen()
			case DRAW_TOGGLE_PAUSE:
				ctx.o.TogglePause()
			case DRAW_TOGGLE_HELP:
				ctx.showHelp = !ctx.showHelp
			}
		default:
			return true
		}
	}
}

func (ctx *DrawContext) QueueCommand(cmd DrawCommand) {
	select {
	case ctx.cmd <- cmd:
	default:
		log.Printf(`draw queue full, dropping command %d`, cmd)
	}
}

func (ctx *DrawContext) toggleFullscreen() {
	if ctx.fullscreen {
		p := ctx.windowed
		ctx.win.SetMonitor(nil, p[0], p[1], p[2], p[3], 0)
	} else {
		x, y := ctx.win.GetPos()
		w, h := ctx.win.GetSize()
		ctx.windowed = [4]int{x, y, w, h}

		m := glfw.GetPrimaryMonitor()
		mode := m.GetVideoMode()
		ctx.win.SetMonitor(m, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	}
	ctx.fullscreen = !ctx.fullscreen
}

// Shutdown releases GL objects and closes the window.
func (ctx *DrawContext) Shutdown() {
	for _, l := range ctx.labels {
		gl.DeleteTextures(1, &l.tex)
	}
	if ctx.help.tex != 0 {
		gl.DeleteTextures(1, &ctx.help.tex)
	}
	for _, t := range ctx.textures {
		gl.DeleteTextures(1, &t)
	}
	for _, l := range ctx.meshes {
		gl.DeleteLists(l, 1)
	}
	for _, l := range ctx.rings {
		gl.DeleteLists(l, 1)
	}
	for _, l := range ctx.skybox {
		gl.DeleteLists(l, 1)
	}

	ctx.win.Destroy()
	glfw.Terminate()
}
