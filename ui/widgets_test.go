package ui

import (
	"testing"

	"git.c3pb.de/farhaven/solarsystem/orrery"
)

func TestSliderValueAt(t *testing.T) {
	s := newSlider(orrery.Earth)
	s.Track = Rect{100, 0, 130, 6}

	cases := []struct {
		x, v float64
	}{
		{100, 0},
		{230, 5},
		{500, 5},
		{-20, 0},
		{165, 2.5},
		{100 + 130*0.3/5, 0.3},
		{100 + 130*0.7/5 + 1, 0.7},
		{100 + 130*4.44/5, 4.4},
	}
	for _, c := range cases {
		if v := s.ValueAt(c.x); v != c.v {
			t.Errorf(`x=%f: got %v, expected %v`, c.x, v, c.v)
		}
	}

	if x := s.KnobX(2.5); x != 165 {
		t.Errorf(`knob for 2.5 at %f`, x)
	}
	if x := s.KnobX(9); x != 230 {
		t.Errorf(`knob beyond the range at %f`, x)
	}
}

func TestDecimals(t *testing.T) {
	for step, n := range map[float64]int{0.1: 1, 1: 0, 0.25: 2} {
		if d := decimals(step); d != n {
			t.Errorf(`decimals(%v) = %d`, step, d)
		}
	}
}

func newTestPanel() (*Panel, *orrery.Orrery) {
	o := orrery.New()
	return NewPanel(o, orrery.Kinds(), 1024), o
}

func center(r Rect) (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

func TestPanelLayout(t *testing.T) {
	p, _ := newTestPanel()

	if n := len(p.Sliders); n != 8 {
		t.Fatalf(`expected 8 sliders, got %d`, n)
	}
	for _, s := range p.Sliders {
		if s.Kind == orrery.Sun {
			t.Errorf(`the sun has a slider`)
		}
		if !p.Rect.Contains(center(s.Row)) {
			t.Errorf(`%s slider outside the panel`, s.Label)
		}
		if s.Min != 0 || s.Max != 5 || s.Step != 0.1 {
			t.Errorf(`%s: range [%f, %f] step %f`, s.Label, s.Min, s.Max, s.Step)
		}
	}
	if p.Sliders[0].Label != "Mercury" || p.Sliders[7].Label != "Neptune" {
		t.Errorf(`unexpected slider order`)
	}

	if r := p.Pause.Rect; r.X+r.W != 1024-20 || r.Y != 20 {
		t.Errorf(`pause button at %+v`, r)
	}
	p.Layout(640)
	if r := p.Pause.Rect; r.X+r.W != 640-20 {
		t.Errorf(`pause button didn't follow the resize: %+v`, r)
	}
}

func TestPanelSlider(t *testing.T) {
	p, o := newTestPanel()

	s := p.Sliders[0]
	x, y := center(s.Track)
	if !p.Press(x, y) {
		t.Fatalf(`press on the mercury slider not consumed`)
	}
	if v := o.Speed(orrery.Mercury); v != 2.5 {
		t.Errorf(`mercury speed %v`, v)
	}

	if !p.Drag(s.Track.X + s.Track.W) {
		t.Errorf(`drag not handled`)
	}
	if v := o.Speed(orrery.Mercury); v != 5 {
		t.Errorf(`mercury speed %v after dragging to the end`, v)
	}

	p.Release()
	if p.Drag(s.Track.X) {
		t.Errorf(`drag handled after release`)
	}

	for _, k := range orrery.Kinds()[2:] {
		if v, d := o.Speed(k), orrery.NewBody(k).DefaultSpeed; v != d {
			t.Errorf(`%s speed changed to %v`, k, v)
		}
	}
}

func TestPanelPressOutside(t *testing.T) {
	p, o := newTestPanel()

	if p.Press(600, 400) {
		t.Errorf(`press in the scene consumed`)
	}
	if p.Dragging() {
		t.Errorf(`dragging after a press in the scene`)
	}

	// The panel background swallows presses but changes nothing.
	if !p.Press(p.Rect.X+1, p.Rect.Y+1) {
		t.Errorf(`press on the panel background not consumed`)
	}
	if o.Paused() {
		t.Errorf(`paused by the panel background`)
	}
}

func TestPauseButton(t *testing.T) {
	p, o := newTestPanel()
	x, y := center(p.Pause.Rect)

	if l := PauseLabel(o.Paused()); l != "Pause" {
		t.Fatalf(`initial label %q`, l)
	}

	p.Press(x, y)
	if !o.Paused() || PauseLabel(o.Paused()) != "Resume" {
		t.Errorf(`expected paused with a resume label`)
	}
	if bg, fg := PauseColors(true); bg != red || fg != white {
		t.Errorf(`paused colours %v %v`, bg, fg)
	}

	p.Press(x, y)
	p.Press(x, y)
	p.Press(x, y)
	if o.Paused() || PauseLabel(o.Paused()) != "Pause" {
		t.Errorf(`expected running with a pause label after two round trips`)
	}
	if bg, fg := PauseColors(false); bg != white || fg != black {
		t.Errorf(`running colours %v %v`, bg, fg)
	}
}

func TestTooltip(t *testing.T) {
	var tt Tooltip

	tt.Update(orrery.Jupiter, 100, 200)
	if !tt.Visible || tt.Text != "Jupiter" || tt.X != 110 || tt.Y != 210 {
		t.Errorf(`unexpected tooltip %+v`, tt)
	}

	tt.Update(orrery.None, 300, 300)
	if tt.Visible {
		t.Errorf(`tooltip visible over nothing`)
	}
}
