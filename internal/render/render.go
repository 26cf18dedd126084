// Package render adapts the yeqown go-qrcode renderer: it maps style
// parameters onto writer options, produces rasters at an exact pixel size,
// and exports PNG, JPEG and vector SVG. The module grid itself is fully
// owned by the go-qrcode library.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"github.com/yeqown/go-qrcode/writer/standard/shapes"

	"github.com/mhalong/qrstudio/internal/logger"
)

// Format is the export file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatSVG  Format = "svg"
)

// ParseFormat maps a request string to a Format, defaulting to PNG.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "jpg", "jpeg":
		return FormatJPEG
	case "svg":
		return FormatSVG
	default:
		return FormatPNG
	}
}

// Ext returns the file extension for download names.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type for HTTP responses.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Style carries the opaque visual parameters forwarded to the renderer.
// A Background with zero alpha means transparent.
//
// CornerSquareShape and CornerDotShape only affect vector output: the
// raster writer draws finder patterns with the module shape and exposes no
// per-finder styling, so raster output is identical across corner settings.
type Style struct {
	Foreground        color.RGBA
	Background        color.RGBA
	ModuleShape       string // rectangle, circle, liquid, chain, hstripe, vstripe
	CornerSquareShape string // square, rounded, dot
	CornerDotShape    string // square, dot
	PixelSize         int
}

// Renderer renders QR payloads through the go-qrcode writer.
type Renderer struct {
	log *logger.Logger
}

// New returns a Renderer.
func New(log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{log: log}
}

// Render rasterizes payload at exactly style.PixelSize square pixels.
// overlay, when non-nil, is drawn centered over the code at roughly 0.4 of
// its width; callers only pass overlays that the logo probe accepted.
func (r *Renderer) Render(payload string, style Style, overlay image.Image) (image.Image, error) {
	qrc, err := qrcode.NewWith(payload, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart))
	if err != nil {
		return nil, fmt.Errorf("create qr code: %w", err)
	}

	dim := qrc.Dimension()
	if dim <= 0 {
		return nil, fmt.Errorf("invalid qr matrix dimension %d", dim)
	}
	moduleWidth := style.PixelSize / dim
	if moduleWidth < 1 {
		moduleWidth = 1
	}
	if moduleWidth > 255 {
		moduleWidth = 255
	}

	opts := []standard.ImageOption{
		standard.WithQRWidth(uint8(moduleWidth)),
		standard.WithBorderWidth(0),
		standard.WithFgColor(style.Foreground),
		// The writer's builtin encoder defaults to JPEG; the pipeline
		// decodes the buffer as PNG below.
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	}
	if style.Background.A == 0 {
		opts = append(opts, standard.WithBgTransparent())
	} else {
		opts = append(opts, standard.WithBgColor(style.Background))
	}
	if shape := shapeOption(style.ModuleShape); shape != nil {
		opts = append(opts, shape)
	}
	if overlay != nil {
		opts = append(opts,
			standard.WithLogoImage(overlay),
			standard.WithLogoSizeMultiplier(2))
	}

	buf := &bytes.Buffer{}
	w := standard.NewWithWriter(nopWriteCloser{buf}, opts...)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("render qr image: %w", err)
	}

	img, err := png.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode rendered qr: %w", err)
	}
	return scaleTo(img, style.PixelSize), nil
}

// shapeOption maps the module shape name onto a writer option; nil keeps
// the default rectangle.
func shapeOption(name string) standard.ImageOption {
	switch name {
	case "circle":
		return standard.WithCircleShape()
	case "liquid":
		return standard.WithCustomShape(&moduleShape{draw: shapes.LiquidBlock()})
	case "chain":
		return standard.WithCustomShape(&moduleShape{draw: shapes.ChainBlock()})
	case "hstripe":
		return standard.WithCustomShape(&moduleShape{draw: shapes.HStripeBlock(0.85)})
	case "vstripe":
		return standard.WithCustomShape(&moduleShape{draw: shapes.VStripeBlock(0.85)})
	default:
		return nil
	}
}

// moduleShape adapts a shapes draw func to the writer's IShape. Finder
// patterns use the same drawing as data modules; corner shapes are a
// vector-only concern (see Style).
type moduleShape struct {
	draw func(ctx *standard.DrawContext)
}

func (s *moduleShape) Draw(ctx *standard.DrawContext)       { s.draw(ctx) }
func (s *moduleShape) DrawFinder(ctx *standard.DrawContext) { s.draw(ctx) }

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

// scaleTo resizes img to target x target with nearest-neighbor sampling,
// which keeps module edges sharp.
func scaleTo(img image.Image, target int) image.Image {
	b := img.Bounds()
	if target <= 0 || b.Dx() == target && b.Dy() == target {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, target, target))
	sx := float64(b.Dx()) / float64(target)
	sy := float64(b.Dy()) / float64(target)
	for y := 0; y < target; y++ {
		oy := int(float64(y) * sy)
		if oy >= b.Dy() {
			oy = b.Dy() - 1
		}
		for x := 0; x < target; x++ {
			ox := int(float64(x) * sx)
			if ox >= b.Dx() {
				ox = b.Dx() - 1
			}
			dst.Set(x, y, img.At(b.Min.X+ox, b.Min.Y+oy))
		}
	}
	return dst
}

// ExportPNG encodes img as PNG.
func ExportPNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportJPEG flattens img over an opaque background and encodes it; JPEG
// has no alpha channel so transparency falls back to the background color
// (white when the style background is itself transparent).
func ExportJPEG(w io.Writer, img image.Image, bg color.RGBA) error {
	if bg.A == 0 {
		bg = color.RGBA{255, 255, 255, 255}
	}
	bg.A = 255
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	if err := jpeg.Encode(w, out, &jpeg.Options{Quality: 92}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// ParseColor parses a #rrggbb parameter, accepting "transparent" for a
// fully transparent color. Malformed input yields def.
func ParseColor(param string, def color.RGBA) color.RGBA {
	if param == "" {
		return def
	}
	if strings.EqualFold(param, "transparent") {
		return color.RGBA{}
	}
	param = strings.TrimPrefix(param, "#")
	if len(param) != 6 {
		return def
	}
	r, err1 := strconv.ParseUint(param[0:2], 16, 8)
	g, err2 := strconv.ParseUint(param[2:4], 16, 8)
	b, err3 := strconv.ParseUint(param[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return def
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}
