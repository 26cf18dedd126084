package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhalong/qrstudio/internal/frame"
	"github.com/mhalong/qrstudio/internal/logoprobe"
	"github.com/mhalong/qrstudio/internal/payload"
	"github.com/mhalong/qrstudio/internal/render"
)

const (
	minPixelSize     = 64
	maxPixelSize     = 4096
	defaultPixelSize = 1000
)

// QRCodeHandler runs the full pipeline: validate the variant's fields,
// build the payload (falling back when invalid), resolve an optional logo,
// render, composite the frame and stream the image.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	variant := payload.ParseVariant(c.DefaultQuery("type", "url"))
	fields := fieldsFromQuery(c)

	verdict := payload.Validate(variant, fields)
	data := h.builder.Build(variant, fields, verdict)
	if len(data) > h.cfg.MaxPayloadBytes {
		h.log.Warn().Int("len", len(data)).Msg("payload too long, using fallback")
		data = h.builder.Fallback()
	}
	if !verdict.Valid() {
		c.Header("X-QR-Fallback", verdict.Reason)
	}

	style := styleFromQuery(c)
	format := render.ParseFormat(c.DefaultQuery("format", "png"))

	if format == render.FormatSVG {
		svg, err := h.renderer.RenderSVG(data, style)
		if err != nil {
			h.log.Error().Err(err).Msg("svg rendering failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
			return
		}
		h.deliver(c, variant, format, []byte(svg))
		return
	}

	img, err := h.renderer.Render(data, style, h.resolveOverlay(c))
	if err != nil {
		h.log.Error().Err(err).Msg("qr rendering failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}
	if style.Background.A == 0 {
		img = render.CleanTransparent(img, style.Foreground)
	}

	img = frame.Composite(img, frameFromQuery(c, h.cfg.MaxCaptionRunes))

	buf := &bytes.Buffer{}
	if format == render.FormatJPEG {
		err = render.ExportJPEG(buf, img, style.Background)
	} else {
		err = render.ExportPNG(buf, img)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("image encoding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode QR image"})
		return
	}
	h.deliver(c, variant, format, buf.Bytes())
}

// PayloadHandler exposes the payload engine without rendering: it returns
// the verdict and the string that would be encoded.
func (h *Handler) PayloadHandler(c *gin.Context) {
	variant := payload.ParseVariant(c.DefaultQuery("type", "url"))
	fields := fieldsFromQuery(c)
	verdict := payload.Validate(variant, fields)
	c.JSON(http.StatusOK, gin.H{
		"valid":   verdict.Valid(),
		"reason":  verdict.Reason,
		"payload": h.builder.Build(variant, fields, verdict),
	})
}

// resolveOverlay fetches and decodes the logo reference, if any. A logo
// that fails or times out is omitted rather than failing the request.
func (h *Handler) resolveOverlay(c *gin.Context) image.Image {
	ref := c.Query("logoUrl")
	if ref == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.LogoProbeTimeout)
	defer cancel()
	img, err := logoprobe.Fetch(ctx, h.probes, ref)
	if err != nil {
		h.log.Warn().Err(err).Str("ref", ref).Msg("logo omitted from QR")
		return nil
	}
	return img
}

// deliver streams body with the right content type; download=1 attaches a
// deterministic filename of the form qr-<variant>-<timestamp>.<ext>.
func (h *Handler) deliver(c *gin.Context, variant payload.Variant, format render.Format, body []byte) {
	if c.Query("download") == "1" {
		name := fmt.Sprintf("qr-%s-%d.%s", variant, time.Now().Unix(), format.Ext())
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	c.Data(http.StatusOK, format.ContentType(), body)
}

// fieldsFromQuery populates the retained field bag from query parameters.
// Every variant's record is filled regardless of the active variant.
func fieldsFromQuery(c *gin.Context) payload.Fields {
	return payload.Fields{
		Content: c.Query("content"),
		WiFi: payload.WiFiFields{
			SSID:     c.Query("ssid"),
			Password: c.Query("password"),
			Security: payload.ParseWiFiSecurity(c.DefaultQuery("encryption", "WPA")),
		},
		Message: payload.MessageFields{
			Phone:   c.Query("phone"),
			Message: c.Query("message"),
		},
		Contact: payload.ContactFields{
			FirstName: c.Query("firstName"),
			LastName:  c.Query("lastName"),
			Mobile:    c.Query("mobile"),
			WorkPhone: c.Query("workPhone"),
			Email:     c.Query("email"),
			Website:   c.Query("website"),
			Company:   c.Query("company"),
			JobTitle:  c.Query("jobTitle"),
			Street:    c.Query("street"),
			City:      c.Query("city"),
			Country:   c.Query("country"),
		},
		PromptPay: payload.PromptPayFields{
			ID:     c.Query("promptpayId"),
			Amount: c.Query("amount"),
			Kind:   payload.ParseIDKind(c.DefaultQuery("idType", "mobile")),
		},
		FileURL: c.Query("fileUrl"),
	}
}

func styleFromQuery(c *gin.Context) render.Style {
	size := defaultPixelSize
	if s := c.Query("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			size = v
		}
	}
	if size < minPixelSize {
		size = minPixelSize
	}
	if size > maxPixelSize {
		size = maxPixelSize
	}
	return render.Style{
		Foreground:        render.ParseColor(c.Query("fg"), color.RGBA{0, 0, 0, 255}),
		Background:        render.ParseColor(c.Query("bg"), color.RGBA{255, 255, 255, 255}),
		ModuleShape:       c.DefaultQuery("shape", "rectangle"),
		CornerSquareShape: c.DefaultQuery("cornerSquare", "square"),
		CornerDotShape:    c.DefaultQuery("cornerDot", "square"),
		PixelSize:         size,
	}
}

func frameFromQuery(c *gin.Context, maxCaption int) frame.Spec {
	return frame.Spec{
		Kind:       frame.ParseKind(c.DefaultQuery("frame", "none")),
		Caption:    frame.ClampCaption(c.Query("frameText"), maxCaption),
		Accent:     render.ParseColor(c.Query("frameColor"), color.RGBA{0, 0, 0, 255}),
		Background: render.ParseColor(c.Query("frameBg"), color.RGBA{255, 255, 255, 255}),
	}
}
