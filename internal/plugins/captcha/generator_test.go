package captcha

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func TestGenerate_AnswerShape(t *testing.T) {
	gen := NewGenerator(6, 160, 50)

	answer, img, err := gen.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answer) != 6 {
		t.Errorf("expected 6-character answer, got %d: %q", len(answer), answer)
	}
	for _, ch := range answer {
		if !strings.ContainsRune(Alphabet, ch) {
			t.Errorf("answer character %q not in alphabet", ch)
		}
	}
	if len(img) == 0 {
		t.Error("expected non-empty image")
	}
}

func TestGenerate_ImageDecodesWithConfiguredSize(t *testing.T) {
	gen := NewGenerator(6, 160, 50)

	_, img, err := gen.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("expected valid PNG, decode failed: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 160 || bounds.Dy() != 50 {
		t.Errorf("expected 160x50 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerate_AnswersAreNotRepeated(t *testing.T) {
	gen := NewGenerator(6, 160, 50)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		answer, _, err := gen.Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[answer] {
			t.Fatalf("answer %q repeated after %d generations", answer, i)
		}
		seen[answer] = true
	}
}

func TestRender_SameAnswerDistinctImages(t *testing.T) {
	gen := &imageGenerator{length: 6, width: 160, height: 50}

	first := gen.render("K9pQ2z")
	second := gen.render("K9pQ2z")

	if bytes.Equal(first.Pix, second.Pix) {
		t.Error("expected two renderings of the same answer to differ")
	}
}

func TestRender_ContainsInk(t *testing.T) {
	gen := &imageGenerator{length: 6, width: 160, height: 50}
	img := gen.render("aB3xQ9")

	// Glyph ink is dark (channels < 110); the background never is. At least
	// some pixels must be dark or nothing was drawn.
	dark := 0
	for y := 0; y < 50; y++ {
		for x := 0; x < 160; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 110 && c.G < 110 && c.B < 110 {
				dark++
			}
		}
	}
	if dark < 20 {
		t.Errorf("expected rendered glyph pixels, found %d dark pixels", dark)
	}
}

func TestRandomAnswer_Length(t *testing.T) {
	for _, n := range []int{1, 4, 6, 10} {
		if got := len(randomAnswer(n)); got != n {
			t.Errorf("randomAnswer(%d) produced %d characters", n, got)
		}
	}
}
