package ui

import (
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"git.c3pb.de/farhaven/solarsystem/orrery"
)

// Controls is what the overlay widgets mutate.
type Controls interface {
	SetSpeed(k orrery.Kind, speed float64) error
	Speed(k orrery.Kind) float64
	TogglePause() bool
	Paused() bool
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

var (
	white     = colorful.Color{R: 1, G: 1, B: 1}
	black     = colorful.Color{}
	red       = colorful.Color{R: 1}
	trackGrey = colorful.Color{R: 0.45, G: 0.45, B: 0.45}
	fillBlue  = colorful.Hcl(250, 0.6, 0.6).Clamped()
)

// Slider is a range input bound to one body's speed.
type Slider struct {
	Kind  orrery.Kind
	Label string

	Min, Max, Step float64

	Row   Rect
	Track Rect
}

func newSlider(k orrery.Kind) *Slider {
	return &Slider{
		Kind:  k,
		Label: k.String(),
		Min:   orrery.MinSpeed,
		Max:   orrery.MaxSpeed,
		Step:  0.1,
	}
}

// ValueAt maps a cursor x coordinate to the value the slider would take:
// clamped to the range, snapped to the step and printed with as many
// decimals as the step has.
func (s *Slider) ValueAt(x float64) float64 {
	f := 0.0
	if s.Track.W > 0 {
		f = (x - s.Track.X) / s.Track.W
	}
	f = math.Max(0, math.Min(1, f))

	v := s.Min + f*(s.Max-s.Min)
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	v = math.Max(s.Min, math.Min(s.Max, v))

	p, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals(s.Step), 64), 64)
	if err != nil {
		return v
	}
	return p
}

// KnobX is the x coordinate of the knob for value v.
func (s *Slider) KnobX(v float64) float64 {
	if s.Max == s.Min {
		return s.Track.X
	}
	f := (v - s.Min) / (s.Max - s.Min)
	return s.Track.X + math.Max(0, math.Min(1, f))*s.Track.W
}

func decimals(step float64) int {
	str := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.IndexByte(str, '.'); i >= 0 {
		return len(str) - i - 1
	}
	return 0
}

type Button struct {
	Rect Rect
}

func PauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

// PauseColors returns background and text colour of the pause button.
func PauseColors(paused bool) (bg, fg colorful.Color) {
	if paused {
		return red, white
	}
	return white, black
}

// Tooltip is the floating label naming the body under the pointer.
type Tooltip struct {
	Text    string
	X, Y    float64
	Visible bool
}

const tooltipOffset = 10

func (t *Tooltip) Update(k orrery.Kind, x, y float64) {
	if k == orrery.None {
		t.Visible = false
		return
	}
	t.Text = k.String()
	t.X, t.Y = x+tooltipOffset, y+tooltipOffset
	t.Visible = true
}

func (t *Tooltip) Hide() {
	t.Visible = false
}

const (
	panelMargin  = 20
	panelPadding = 10
	rowHeight    = 24
	labelWidth   = 80
	trackWidth   = 130
	trackHeight  = 6

	buttonWidth  = 90
	buttonHeight = 30
)

// Panel holds the speed sliders and the pause button and routes pointer
// input to them.
type Panel struct {
	ctl Controls

	Rect    Rect
	Sliders []*Slider
	Pause   Button

	dragging *Slider
}

func NewPanel(ctl Controls, kinds []orrery.Kind, width int) *Panel {
	p := &Panel{ctl: ctl}

	y := float64(panelMargin + panelPadding)
	for _, k := range kinds {
		if !k.Orbiting() {
			continue
		}
		s := newSlider(k)
		s.Row = Rect{panelMargin + panelPadding, y, labelWidth + trackWidth, rowHeight}
		s.Track = Rect{s.Row.X + labelWidth, y + (rowHeight-trackHeight)/2, trackWidth, trackHeight}
		p.Sliders = append(p.Sliders, s)
		y += rowHeight
	}

	p.Rect = Rect{
		X: panelMargin,
		Y: panelMargin,
		W: 2*panelPadding + labelWidth + trackWidth,
		H: y - panelMargin + panelPadding,
	}
	p.Layout(width)

	return p
}

// Layout keeps the pause button in the top right corner.
func (p *Panel) Layout(width int) {
	p.Pause.Rect = Rect{float64(width) - panelMargin - buttonWidth, panelMargin, buttonWidth, buttonHeight}
}

// Covers reports whether (x, y) is on any widget.
func (p *Panel) Covers(x, y float64) bool {
	return p.Rect.Contains(x, y) || p.Pause.Rect.Contains(x, y)
}

func (p *Panel) sliderAt(x, y float64) *Slider {
	for _, s := range p.Sliders {
		if s.Row.Contains(x, y) {
			return s
		}
	}
	return nil
}

// Press handles a primary button press. It reports whether the press was
// consumed by a widget.
func (p *Panel) Press(x, y float64) bool {
	if p.Pause.Rect.Contains(x, y) {
		p.ctl.TogglePause()
		return true
	}
	if s := p.sliderAt(x, y); s != nil && x >= s.Track.X {
		p.dragging = s
		p.set(s, x)
		return true
	}
	return p.Rect.Contains(x, y)
}

// Drag moves the slider grabbed by Press, if any.
func (p *Panel) Drag(x float64) bool {
	if p.dragging == nil {
		return false
	}
	p.set(p.dragging, x)
	return true
}

func (p *Panel) Release() {
	p.dragging = nil
}

func (p *Panel) Dragging() bool {
	return p.dragging != nil
}

func (p *Panel) set(s *Slider, x float64) {
	v := s.ValueAt(x)
	if v == p.ctl.Speed(s.Kind) {
		return
	}
	if err := p.ctl.SetSpeed(s.Kind, v); err != nil {
		log.Printf(`slider %s: %s`, s.Label, err)
	}
}
