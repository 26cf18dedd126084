// Package frame composes a decorative border and caption around a rendered
// QR image. Composition is pure over raster data: the input image is never
// mutated and every failure path returns it unchanged.
package frame

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// Kind selects the frame layout.
type Kind int

const (
	KindNone Kind = iota
	KindBorder
	KindCaptionBelow
	KindCaptionAboveBelow
)

// ParseKind maps a request string to a Kind, defaulting to none.
func ParseKind(s string) Kind {
	switch s {
	case "border":
		return KindBorder
	case "bottom-text":
		return KindCaptionBelow
	case "top-bottom":
		return KindCaptionAboveBelow
	default:
		return KindNone
	}
}

// Spec configures one composition. Caption is only meaningful for the
// caption kinds; KindBorder ignores it entirely.
type Spec struct {
	Kind       Kind
	Caption    string
	Accent     color.Color
	Background color.Color
}

// Corner radius of the frame outline, in pixels.
const cornerRadius = 40

// Metrics, all derived from the barcode image width.
const (
	paddingFrac = 0.05  // whitespace around the barcode
	borderFrac  = 0.025 // stroke thickness
	fontFrac    = 0.08  // caption point size
	bandFactor  = 1.5   // caption band height in font sizes
)

// ClampCaption bounds a caption to max runes.
func ClampCaption(s string, max int) string {
	r := []rune(s)
	if max > 0 && len(r) > max {
		return string(r[:max])
	}
	return s
}

// Composite returns a new image with the frame applied around src. With
// KindNone, src itself is returned. On any internal failure the original
// image is returned rather than a partial composite.
func Composite(src image.Image, spec Spec) image.Image {
	if spec.Kind == KindNone {
		return src
	}

	b := src.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w <= 0 || h <= 0 {
		return src
	}

	padding := w * paddingFrac
	borderThickness := w * borderFrac
	fontSize := w * fontFrac
	band := fontSize * bandFactor

	newW := w + 2*padding
	newH := h + 2*padding
	switch spec.Kind {
	case KindCaptionBelow:
		newH += band
	case KindCaptionAboveBelow:
		newH += 2 * band
	}

	withCaption := spec.Kind != KindBorder && spec.Caption != ""
	var face font.Face
	if withCaption {
		var err error
		if face, err = captionFace(fontSize); err != nil {
			return src
		}
	}

	dc := gg.NewContext(int(math.Round(newW)), int(math.Round(newH)))

	// Rounded-rect outline inset by half the stroke so the stroke stays
	// inside the canvas.
	off := borderThickness / 2
	dc.DrawRoundedRectangle(off, off, newW-borderThickness, newH-borderThickness, cornerRadius)
	dc.SetColor(spec.Background)
	dc.FillPreserve()
	dc.SetColor(spec.Accent)
	dc.SetLineWidth(borderThickness)
	dc.Stroke()

	qrY := padding
	if spec.Kind == KindCaptionAboveBelow {
		qrY += band
	}
	dc.DrawImage(src, int(math.Round(padding)), int(math.Round(qrY)))

	if withCaption {
		dc.SetFontFace(face)
		dc.SetColor(spec.Accent)
		bottomY := newH - band/2 - padding/2
		switch spec.Kind {
		case KindCaptionBelow:
			dc.DrawStringAnchored(spec.Caption, newW/2, bottomY, 0.5, 0.5)
		case KindCaptionAboveBelow:
			topY := band/2 + padding/2
			dc.DrawStringAnchored(spec.Caption, newW/2, topY, 0.5, 0.5)
			dc.DrawStringAnchored(spec.Caption, newW/2, bottomY, 0.5, 0.5)
		}
	}

	return dc.Image()
}

var (
	fontOnce sync.Once
	boldFont *truetype.Font
	fontErr  error
)

// captionFace returns a bold face at the given point size. The font is
// parsed once and faces are derived per size.
func captionFace(points float64) (font.Face, error) {
	fontOnce.Do(func() {
		boldFont, fontErr = truetype.Parse(gobold.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(boldFont, &truetype.Options{Size: points}), nil
}
