package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// RenderSVG builds a true vector SVG document for payload. Modules are
// emitted as rects or circles per the module shape; finder-pattern modules
// follow the corner-square and corner-dot shapes. Frames are a raster
// concern and are not part of the vector output.
func (r *Renderer) RenderSVG(payload string, style Style) (string, error) {
	qrc, err := qrcode.NewWith(payload, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart))
	if err != nil {
		return "", fmt.Errorf("create qr code: %w", err)
	}

	matrix, err := moduleMatrix(qrc)
	if err != nil {
		return "", err
	}
	dim := len(matrix)
	if dim == 0 {
		return "", fmt.Errorf("empty qr matrix")
	}

	target := style.PixelSize
	if target <= 0 {
		target = 400
	}
	moduleSize := target / dim
	if moduleSize < 1 {
		moduleSize = 1
	}
	total := moduleSize * dim

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`,
		total, total, total, total)

	if style.Background.A > 0 {
		fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`,
			total, total, rgb(style.Background))
	}

	fill := rgb(style.Foreground)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if !matrix[y][x] {
				continue
			}
			round := style.ModuleShape == "circle"
			if inFinder(x, y, dim) {
				round = finderRound(x, y, dim, style)
			}
			px, py := x*moduleSize, y*moduleSize
			if round {
				rad := moduleSize / 2
				fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`,
					px+rad, py+rad, rad, fill)
			} else {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
					px, py, moduleSize, moduleSize, fill)
			}
		}
	}

	b.WriteString(`</svg>`)
	return b.String(), nil
}

// moduleMatrix extracts the module grid by rendering one pixel per module
// and sampling the result; the library does not expose the bitmap directly.
func moduleMatrix(qrc *qrcode.QRCode) ([][]bool, error) {
	buf := &bytes.Buffer{}
	w := standard.NewWithWriter(nopWriteCloser{buf},
		standard.WithQRWidth(1),
		standard.WithBorderWidth(0),
		standard.WithBgColor(color.RGBA{255, 255, 255, 255}),
		standard.WithFgColor(color.RGBA{0, 0, 0, 255}),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("render matrix: %w", err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode matrix image: %w", err)
	}

	b := img.Bounds()
	dim := b.Dx()
	matrix := make([][]bool, dim)
	for y := 0; y < dim; y++ {
		matrix[y] = make([]bool, dim)
		for x := 0; x < dim; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			matrix[y][x] = r < 1<<15
		}
	}
	return matrix, nil
}

// inFinder reports whether the module lies in one of the three 7x7 finder
// patterns.
func inFinder(x, y, dim int) bool {
	return (x < 7 && y < 7) ||
		(x >= dim-7 && y < 7) ||
		(x < 7 && y >= dim-7)
}

// finderRound decides whether a finder module renders round, using the
// corner-dot shape for the inner 3x3 core and the corner-square shape for
// the ring.
func finderRound(x, y, dim int, style Style) bool {
	cx, cy := x, y
	if cx >= dim-7 {
		cx -= dim - 7
	}
	if cy >= dim-7 {
		cy -= dim - 7
	}
	inCore := cx >= 2 && cx <= 4 && cy >= 2 && cy <= 4
	if inCore {
		return style.CornerDotShape == "dot"
	}
	return style.CornerSquareShape == "dot" || style.CornerSquareShape == "rounded"
}

func rgb(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Anti-aliasing cleanup for transparent renders: the writer leaves
// semi-transparent halo pixels around modules which show as light fringes
// on dark pages. CleanTransparent strips them, keeping only opaque
// foreground pixels and full transparency.
func CleanTransparent(img image.Image, fg color.RGBA) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			r8, g8, b8, a8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8), uint8(a>>8)
			if isHaloPixel(r8, g8, b8, a8, fg) {
				out.Set(x, y, color.RGBA{})
			} else {
				out.Set(x, y, color.RGBA{r8, g8, b8, a8})
			}
		}
	}
	return out
}

func isHaloPixel(r, g, b, a uint8, fg color.RGBA) bool {
	if a == 0 {
		return false
	}
	if a == 255 && r == fg.R && g == fg.G && b == fg.B {
		return false
	}
	if a < 255 {
		return true
	}
	return r > 200 && g > 200 && b > 200 && (r != fg.R || g != fg.G || b != fg.B)
}
