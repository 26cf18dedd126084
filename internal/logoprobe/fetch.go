package logoprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	// Overlay decoders for the formats logo URLs point at in practice.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Sentinel errors so callers can branch on the failure class.
var (
	// ErrTimeout means the reference did not resolve within the deadline.
	ErrTimeout = errors.New("logo probe timed out")
	// ErrUnusable means the reference is unreachable or does not decode
	// as an image.
	ErrUnusable = errors.New("logo is unreachable or not a valid image")
)

// Fetch downloads ref and confirms it decodes into an overlay image.
// PNG, JPEG and GIF decode directly; SVG is rasterized. The deadline on ctx
// is the probe's timeout.
func Fetch(ctx context.Context, client *resty.Client, ref string) (image.Image, error) {
	resp, err := client.R().SetContext(ctx).Get(ref)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUnusable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUnusable, resp.StatusCode())
	}

	body := resp.Body()
	if img, _, err := image.Decode(bytes.NewReader(body)); err == nil {
		return img, nil
	}
	if looksLikeSVG(resp.Header().Get("Content-Type"), body) {
		if img, err := rasterizeSVG(body); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("%w: undecodable image data", ErrUnusable)
}

func looksLikeSVG(contentType string, body []byte) bool {
	if strings.Contains(contentType, "svg") {
		return true
	}
	head := body
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// rasterizeSVG renders an SVG document onto an RGBA canvas sized from its
// view box.
func rasterizeSVG(body []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = 512, 512
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return rgba, nil
}
