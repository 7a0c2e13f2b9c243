package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph   = 32
	lastGlyph    = 126
	atlasColumns = 16
)

// atlas is the printable ASCII range of a fixed-width face packed into a
// grid. Glyph coverage is stored in the alpha channel.
type atlas struct {
	img     *image.RGBA
	cellW   int
	cellH   int
	ascent  int
	descent int
}

func newAtlas(face *basicfont.Face) *atlas {
	m := face.Metrics()
	a := &atlas{
		cellW:   face.Advance,
		cellH:   face.Height,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}

	count := lastGlyph - firstGlyph + 1
	rows := (count + atlasColumns - 1) / atlasColumns
	a.img = image.NewRGBA(image.Rect(0, 0, atlasColumns*a.cellW, rows*a.cellH))

	d := font.Drawer{
		Dst:  a.img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		col, row := a.cell(r)
		d.Dot = fixed.P(col*a.cellW, row*a.cellH+a.ascent)
		d.DrawString(string(r))
	}
	return a
}

func (a *atlas) cell(r rune) (col, row int) {
	i := int(r) - firstGlyph
	return i % atlasColumns, i / atlasColumns
}

// uv returns the texture coordinates of r, or ok false when r is outside
// the atlas.
func (a *atlas) uv(r rune) ([4]float32, bool) {
	if r < firstGlyph || r > lastGlyph {
		return [4]float32{}, false
	}
	col, row := a.cell(r)
	b := a.img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	return [4]float32{
		float32(col*a.cellW) / w,
		float32(row*a.cellH) / h,
		float32((col+1)*a.cellW) / w,
		float32((row+1)*a.cellH) / h,
	}, true
}

// width is the advance of a run of text. Runes outside the atlas still
// take a cell.
func (a *atlas) width(text string) int {
	n := 0
	for range text {
		n++
	}
	return n * a.cellW
}
