// Package canvas implements render.Surface with OpenGL.
//
// Shapes are tessellated into triangles on the CPU and drawn in two
// batches per frame: solid geometry first, then text from a bitmap font
// atlas. Coordinates are logical window pixels; the viewport covers the
// drawable framebuffer so high-DPI displays stay sharp.
package canvas

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/Faultbox/perspective-toy/internal/engine/shader"
	"github.com/Faultbox/perspective-toy/internal/logger"
	"github.com/Faultbox/perspective-toy/internal/render"
	"github.com/Faultbox/perspective-toy/pkg/math"
)

var _ render.Surface = (*Canvas)(nil)

// Canvas queues drawing commands and submits them on Flush.
// IMPORTANT: must be created after the OpenGL context is current.
type Canvas struct {
	render.StyleStack

	width, height     float64
	fbWidth, fbHeight int32

	background render.Color
	lineWidth  float64

	solidShader uint32
	textShader  uint32

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32

	solidVertices []float32
	textVertices  []float32

	font    *atlas
	fontTex uint32

	log *zap.Logger
}

// New creates a canvas with a logical size and a framebuffer size.
func New(width, height, fbWidth, fbHeight int) (*Canvas, error) {
	c := &Canvas{
		background:    render.ColorBackground,
		lineWidth:     1,
		solidVertices: make([]float32, 0, 4096),
		textVertices:  make([]float32, 0, 4096),
		font:          newAtlas(basicfont.Face7x13),
		log:           logger.Named("canvas"),
	}
	c.Resize(width, height, fbWidth, fbHeight)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	c.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	c.solidShader, err = shader.CompileProgram(shader.SolidVertex, shader.SolidFragment)
	if err != nil {
		return nil, fmt.Errorf("solid shader: %w", err)
	}
	c.textShader, err = shader.CompileProgram(shader.TextVertex, shader.TextFragment)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("text shader: %w", err)
	}

	c.createSolidBuffers()
	c.createTextBuffers()
	c.uploadFont()

	return c, nil
}

// Resize updates the logical size and the framebuffer size.
func (c *Canvas) Resize(width, height, fbWidth, fbHeight int) {
	c.width, c.height = float64(width), float64(height)
	c.fbWidth, c.fbHeight = int32(fbWidth), int32(fbHeight)
}

// SetBackground sets the color used by Clear.
func (c *Canvas) SetBackground(col render.Color) {
	c.background = col
}

// SetLineWidth sets the stroke width in logical pixels.
func (c *Canvas) SetLineWidth(w float64) {
	c.lineWidth = w
}

func (c *Canvas) Size() (float64, float64) {
	return c.width, c.height
}

// Clear clears the framebuffer, drops queued geometry and resets the
// color state.
func (c *Canvas) Clear() {
	c.solidVertices = c.solidVertices[:0]
	c.textVertices = c.textVertices[:0]
	c.Reset(render.ColorFore, render.ColorFore)

	gl.Viewport(0, 0, c.fbWidth, c.fbHeight)
	gl.ClearColor(c.background.R, c.background.G, c.background.B, c.background.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (c *Canvas) SetStrokeColor(col render.Color) { c.Stroke = col }
func (c *Canvas) SetFillColor(col render.Color)   { c.Fill = col }

func (c *Canvas) StrokeLine(x1, y1, x2, y2 float64) {
	q, ok := lineQuad(x1, y1, x2, y2, c.lineWidth)
	if !ok {
		return
	}
	c.solidVertices = appendFan(c.solidVertices, q[:], c.Stroke)
}

func (c *Canvas) StrokeRect(x, y, w, h float64) {
	c.StrokePolygon([]math.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}})
}

func (c *Canvas) StrokePolygon(pts []math.Vec2) {
	if len(pts) < 2 {
		return
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		c.StrokeLine(a.X, a.Y, b.X, b.Y)
	}
}

// FillPolygon fills a convex polygon.
func (c *Canvas) FillPolygon(pts []math.Vec2) {
	if len(pts) < 3 || !allFinite(pts) {
		return
	}
	c.solidVertices = appendFan(c.solidVertices, pts, c.Fill)
}

func (c *Canvas) FillDot(x, y, radius float64) {
	pts := circle(x, y, radius, dotSegments)
	if !allFinite(pts) {
		return
	}
	c.solidVertices = appendFan(c.solidVertices, pts, c.Fill)
}

func (c *Canvas) MeasureText(text string) render.TextMetrics {
	return render.TextMetrics{
		Width:   float64(c.font.width(text)),
		Ascent:  float64(c.font.ascent),
		Descent: float64(c.font.descent),
	}
}

func (c *Canvas) FillText(text string, x, y float64) {
	top := y - float64(c.font.ascent)
	w, h := float64(c.font.cellW), float64(c.font.cellH)
	for _, r := range text {
		if uv, ok := c.font.uv(r); ok {
			c.textVertices = appendGlyph(c.textVertices, x, top, w, h, uv, c.Fill)
		}
		x += w
	}
}

// Flush submits the queued geometry. Solid shapes are drawn before text.
func (c *Canvas) Flush() {
	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Viewport(0, 0, c.fbWidth, c.fbHeight)

	proj := orthoMatrix(c.width, c.height)

	if len(c.solidVertices) > 0 {
		gl.UseProgram(c.solidShader)
		gl.UniformMatrix4fv(shader.Uniform(c.solidShader, "uProjection"), 1, false, &proj[0])

		gl.BindVertexArray(c.solidVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, c.solidVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(c.solidVertices)*4, unsafe.Pointer(&c.solidVertices[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(c.solidVertices)/solidStride))
	}

	if len(c.textVertices) > 0 {
		gl.UseProgram(c.textShader)
		gl.UniformMatrix4fv(shader.Uniform(c.textShader, "uProjection"), 1, false, &proj[0])
		gl.Uniform1i(shader.Uniform(c.textShader, "uTexture"), 0)

		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, c.fontTex)

		gl.BindVertexArray(c.textVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, c.textVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(c.textVertices)*4, unsafe.Pointer(&c.textVertices[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(c.textVertices)/textStride))
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

// ReadPixels reads the back buffer after Flush. Rows are bottom-up as
// OpenGL stores them.
func (c *Canvas) ReadPixels() ([]byte, int, int) {
	w, h := int(c.fbWidth), int(c.fbHeight)
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, c.fbWidth, c.fbHeight, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Close releases GPU resources.
func (c *Canvas) Close() {
	if c.fontTex != 0 {
		gl.DeleteTextures(1, &c.fontTex)
	}
	if c.solidVAO != 0 {
		gl.DeleteVertexArrays(1, &c.solidVAO)
	}
	if c.solidVBO != 0 {
		gl.DeleteBuffers(1, &c.solidVBO)
	}
	if c.textVAO != 0 {
		gl.DeleteVertexArrays(1, &c.textVAO)
	}
	if c.textVBO != 0 {
		gl.DeleteBuffers(1, &c.textVBO)
	}
	if c.solidShader != 0 {
		gl.DeleteProgram(c.solidShader)
	}
	if c.textShader != 0 {
		gl.DeleteProgram(c.textShader)
	}
}

func (c *Canvas) createSolidBuffers() {
	gl.GenVertexArrays(1, &c.solidVAO)
	gl.BindVertexArray(c.solidVAO)

	gl.GenBuffers(1, &c.solidVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.solidVBO)

	stride := int32(solidStride * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (c *Canvas) createTextBuffers() {
	gl.GenVertexArrays(1, &c.textVAO)
	gl.BindVertexArray(c.textVAO)

	gl.GenBuffers(1, &c.textVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.textVBO)

	stride := int32(textStride * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 4*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (c *Canvas) uploadFont() {
	img := c.font.img
	b := img.Bounds()

	gl.GenTextures(1, &c.fontTex)
	gl.BindTexture(gl.TEXTURE_2D, c.fontTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func allFinite(pts []math.Vec2) bool {
	for _, p := range pts {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
