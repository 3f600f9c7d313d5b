// Package captcha generates the image challenges Wardbook demands after a
// failed login attempt. A challenge is a short random alphanumeric answer
// rendered into a deliberately noisy PNG: tinted background, scattered dots,
// stray strokes, and per-character rotation and color jitter so the text
// resists automated extraction while staying human-readable.
//
// The package is pure generation logic. Binding an answer to a session and
// validating responses is the auth plugin's job.
package captcha

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// Alphabet is the set of symbols challenge answers are drawn from:
// upper- and lowercase letters plus digits, 62 symbols total.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator produces challenge answers with matching rendered images.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Generate returns a fresh random answer and a PNG rendering of it.
	// Every call produces a new answer and a visually distinct image.
	Generate() (answer string, img []byte, err error)
}

// imageGenerator renders challenges with the basicfont glyphs from x/image,
// scaled and rotated per character onto a noisy canvas.
type imageGenerator struct {
	length int
	width  int
	height int
}

// NewGenerator creates a challenge generator producing answers of the given
// length rendered at width x height pixels.
func NewGenerator(length, width, height int) Generator {
	return &imageGenerator{
		length: length,
		width:  width,
		height: height,
	}
}

// Generate implements Generator.
func (g *imageGenerator) Generate() (string, []byte, error) {
	answer := randomAnswer(g.length)

	var buf bytes.Buffer
	if err := png.Encode(&buf, g.render(answer)); err != nil {
		return "", nil, fmt.Errorf("encoding challenge image: %w", err)
	}

	return answer, buf.Bytes(), nil
}

// randomAnswer draws length symbols uniformly from Alphabet. math/rand/v2's
// global source is seeded unpredictably at process start, which is enough
// here: the answer is a usability speed-bump, not a cryptographic secret.
func randomAnswer(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = Alphabet[rand.IntN(len(Alphabet))]
	}
	return string(b)
}

// render draws the answer onto a fresh canvas. Randomness is applied at
// every layer so rendering the same answer twice still yields different
// images.
func (g *imageGenerator) render(answer string) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, g.width, g.height))

	// Near-white background with a random tint per image.
	bg := color.RGBA{
		R: uint8(230 + rand.IntN(26)),
		G: uint8(230 + rand.IntN(26)),
		B: uint8(230 + rand.IntN(26)),
		A: 255,
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	g.scatterDots(canvas)
	g.strayStrokes(canvas)
	g.drawGlyphs(canvas, answer)

	return canvas
}

// scatterDots sprinkles small random-colored specks across the canvas.
func (g *imageGenerator) scatterDots(canvas *image.RGBA) {
	for i := 0; i < g.width*g.height/60; i++ {
		x := rand.IntN(g.width)
		y := rand.IntN(g.height)
		canvas.SetRGBA(x, y, randomInk(100, 220))
	}
}

// strayStrokes draws a few random line and arc segments over the canvas to
// break up the character outlines.
func (g *imageGenerator) strayStrokes(canvas *image.RGBA) {
	for i := 0; i < 3; i++ {
		g.strokeLine(canvas,
			float64(rand.IntN(g.width)), float64(rand.IntN(g.height)),
			float64(rand.IntN(g.width)), float64(rand.IntN(g.height)),
			randomInk(60, 180))
	}

	// One quadratic arc through a random control point.
	x0, y0 := float64(rand.IntN(g.width/4)), float64(rand.IntN(g.height))
	x1, y1 := float64(g.width/2+rand.IntN(g.width/4)), float64(rand.IntN(g.height))
	cx, cy := float64(rand.IntN(g.width)), float64(rand.IntN(g.height))
	ink := randomInk(60, 180)
	steps := g.width
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		u := 1 - t
		x := u*u*x0 + 2*u*t*cx + t*t*x1
		y := u*u*y0 + 2*u*t*cy + t*t*y1
		canvas.SetRGBA(int(x), int(y), ink)
	}
}

// strokeLine plots a straight segment by sampling along its length.
func (g *imageGenerator) strokeLine(canvas *image.RGBA, x0, y0, x1, y1 float64, ink color.RGBA) {
	steps := int(math.Hypot(x1-x0, y1-y0))
	if steps == 0 {
		steps = 1
	}
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		canvas.SetRGBA(int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), ink)
	}
}

// drawGlyphs renders each answer character with its own scale, rotation,
// color, and positional jitter. Characters are first drawn small with the
// basicfont face, then pushed through an affine transform onto the canvas.
func (g *imageGenerator) drawGlyphs(canvas *image.RGBA, answer string) {
	if answer == "" {
		return
	}

	face := basicfont.Face7x13
	const glyphW, glyphH = 9, 15

	margin := 10.0
	step := (float64(g.width) - 2*margin) / float64(len(answer))

	for i, ch := range answer {
		glyph := image.NewRGBA(image.Rect(0, 0, glyphW, glyphH))
		d := font.Drawer{
			Dst:  glyph,
			Src:  image.NewUniform(randomInk(0, 110)),
			Face: face,
			Dot:  fixed.P(1, 12),
		}
		d.DrawString(string(ch))

		scale := 2.2 + rand.Float64()*0.6
		angle := (rand.Float64() - 0.5) * 0.7 // roughly +/- 20 degrees
		sin, cos := math.Sincos(angle)

		tx := margin + float64(i)*step + rand.Float64()*4
		ty := (float64(g.height)-glyphH*scale)/2 + rand.Float64()*6 - 3

		m := f64.Aff3{
			scale * cos, -scale * sin, tx,
			scale * sin, scale * cos, ty,
		}
		draw.NearestNeighbor.Transform(canvas, m, glyph, glyph.Bounds(), draw.Over, nil)
	}
}

// randomInk returns a random opaque color with each channel in [lo, hi).
func randomInk(lo, hi int) color.RGBA {
	return color.RGBA{
		R: uint8(lo + rand.IntN(hi-lo)),
		G: uint8(lo + rand.IntN(hi-lo)),
		B: uint8(lo + rand.IntN(hi-lo)),
		A: 255,
	}
}
