package render

// extent is the size taken by a placed element.
type extent struct {
	W, H float64
}

// placer draws an element with its top-left corner at (x, y) and reports
// the space it used.
type placer func(x, y float64) extent

// stack places items in a column, gutter pixels apart.
func stack(x, y, gutter float64, items ...placer) extent {
	cy := y
	var mw float64
	for _, place := range items {
		e := place(x, cy)
		cy += e.H + gutter
		mw = max(mw, e.W)
	}
	return extent{W: mw, H: cy - y}
}

// flow places items in a row, gutter pixels apart.
func flow(x, y, gutter float64, items ...placer) extent {
	cx := x
	var mh float64
	for _, place := range items {
		e := place(cx, y)
		cx += e.W + gutter
		mh = max(mh, e.H)
	}
	return extent{W: cx - x, H: mh}
}
