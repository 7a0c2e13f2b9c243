package render

import (
	"strconv"

	"github.com/Faultbox/perspective-toy/internal/hitbox"
)

const (
	chromeMargin  = 16
	chromeGutter  = 8
	buttonPadding = 4
	footerOffset  = 36
)

// drawChrome draws the header toolbar and the footer.
func (r *Renderer) drawChrome(f frame) {
	_, h := f.s.Size()

	stack(chromeMargin, chromeMargin, chromeGutter,
		func(x, y float64) extent { return r.cubesRow(f, x, y) },
	)
	flow(chromeMargin, h-footerOffset, chromeGutter,
		func(x, y float64) extent { return r.text(f, x, y, "perspective-toy", ColorBlue) },
		func(x, y float64) extent { return r.text(f, x, y, "F12 screenshot  Esc quit", ColorSubtle) },
	)
}

// cubesRow is the CUBES label, the ADD button, one button per cube and
// the CLR button.
func (r *Renderer) cubesRow(f frame, x, y float64) extent {
	items := []placer{
		func(x, y float64) extent { return r.text(f, x, y, cubesLabel, ColorFore) },
		func(x, y float64) extent {
			return r.button(f, x, y, "ADD", AddCubeID,
				hitbox.Action{Kind: hitbox.KindAddCube, Clickable: true},
				ColorHover, r.hovering(AddCubeID))
		},
	}
	for i, c := range r.store.Cubes() {
		id := CubeButtonID(c.ID)
		items = append(items, func(x, y float64) extent {
			return r.button(f, x, y, strconv.Itoa(i+1), id,
				hitbox.Action{Kind: hitbox.KindCubeButton, Target: c.ID, Clickable: true},
				ColorHover, r.hovering(id, CubeID(c.ID), CubeHandleID(c.ID)))
		})
	}
	items = append(items, func(x, y float64) extent {
		return r.button(f, x, y, "CLR", ClearID,
			hitbox.Action{Kind: hitbox.KindClear, Clickable: true},
			ColorRed, r.hovering(ClearID))
	})
	return flow(x, y, chromeGutter, items...)
}

func (r *Renderer) button(f frame, x, y float64, label, id string, action hitbox.Action, hoverColor Color, hover bool) extent {
	f.s.Save()
	defer f.s.Restore()

	c := ColorFore
	if hover {
		c = hoverColor
	}
	f.s.SetStrokeColor(c)
	f.s.SetFillColor(c)

	m := f.s.MeasureText(label)
	w := m.Width + buttonPadding*2
	h := m.Height() + buttonPadding*2
	f.s.StrokeRect(x, y, w, h)
	f.s.FillText(label, x+buttonPadding, y+m.Ascent+buttonPadding)

	f.boxes.Add(hitbox.Region{
		ID:     id,
		Shape:  hitbox.Rect{X: x, Y: y, W: w, H: h},
		Action: action,
	})
	return extent{W: w, H: h}
}

func (r *Renderer) text(f frame, x, y float64, text string, c Color) extent {
	f.s.Save()
	defer f.s.Restore()

	f.s.SetFillColor(c)
	m := f.s.MeasureText(text)
	f.s.FillText(text, x+buttonPadding, y+m.Ascent+buttonPadding)
	return extent{W: m.Width + buttonPadding*2, H: m.Height() + buttonPadding*2}
}
