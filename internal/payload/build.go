package payload

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mhalong/qrstudio/internal/logger"
	"github.com/mhalong/qrstudio/internal/promptpay"
)

// PaymentEncoder is the payment payload collaborator. Encode returns the
// standards-compliant string for the given proxy type and target; amount
// <= 0 means no fixed amount.
type PaymentEncoder interface {
	Encode(proxy promptpay.ProxyType, target string, amount float64) (string, error)
}

// Builder constructs wire-format payload strings. Fallback is the neutral
// link substituted whenever the active variant cannot produce a well-formed
// payload, so the QR encoder never sees malformed or empty input.
type Builder struct {
	fallback string
	encoder  PaymentEncoder
	log      *logger.Logger
}

// NewBuilder wires a Builder with its fallback payload and payment encoder.
func NewBuilder(fallback string, encoder PaymentEncoder, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{fallback: fallback, encoder: encoder, log: log}
}

// Fallback returns the configured fallback payload.
func (b *Builder) Fallback() string { return b.fallback }

// Build returns the canonical payload string for the active variant. An
// invalid verdict, missing upstream data, or an encoder failure all degrade
// to the fallback link; Build never returns an empty or malformed string.
func (b *Builder) Build(variant Variant, f Fields, verdict Verdict) string {
	if !verdict.Valid() {
		return b.fallback
	}

	switch variant {
	case VariantLink, VariantText:
		return f.Content
	case VariantPhone:
		return "tel:" + f.Content
	case VariantEmail:
		return "mailto:" + f.Content
	case VariantWiFi:
		// SSID and password are deliberately not escaped for embedded
		// semicolons/colons; scanners in the wild expect the raw form.
		return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;",
			f.WiFi.Security, f.WiFi.SSID, f.WiFi.Password)
	case VariantSMS:
		return fmt.Sprintf("SMSTO:%s:%s", f.Message.Phone, f.Message.Message)
	case VariantWhatsApp:
		return fmt.Sprintf("https://wa.me/%s?text=%s",
			f.Message.Phone, encodeURIComponent(f.Message.Message))
	case VariantVCard:
		return buildVCard(f.Contact)
	case VariantPromptPay:
		return b.buildPromptPay(f.PromptPay)
	case VariantFile:
		return f.FileURL
	}
	return b.fallback
}

// buildVCard renders a vCard 3.0 record. The line order and field tags are
// fixed for downstream scanner compatibility.
func buildVCard(c ContactFields) string {
	return strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		fmt.Sprintf("N:%s;%s;;;", c.LastName, c.FirstName),
		fmt.Sprintf("FN:%s %s", c.FirstName, c.LastName),
		"ORG:" + c.Company,
		"TITLE:" + c.JobTitle,
		"TEL;TYPE=CELL:" + c.Mobile,
		"TEL;TYPE=WORK:" + c.WorkPhone,
		"EMAIL:" + c.Email,
		"URL:" + c.Website,
		fmt.Sprintf("ADR;TYPE=WORK:;;%s;%s;;%s", c.Street, c.City, c.Country),
		"END:VCARD",
	}, "\n")
}

func (b *Builder) buildPromptPay(p PromptPayFields) string {
	var proxy promptpay.ProxyType
	switch p.Kind {
	case IDKindCitizen, IDKindTax:
		proxy = promptpay.ProxyNatID
	case IDKindEWallet:
		proxy = promptpay.ProxyEWallet
	default:
		proxy = promptpay.ProxyMSISDN
	}

	var amount float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(p.Amount), 64); err == nil && v > 0 {
		amount = v
	}

	encoded, err := b.encoder.Encode(proxy, stripPhone(strings.TrimSpace(p.ID)), amount)
	if err != nil {
		b.log.Warn().Err(err).Str("proxy", string(proxy)).
			Msg("promptpay encoding failed, using fallback payload")
		return b.fallback
	}
	return encoded
}

// encodeURIComponent matches the JS escaping the wa.me deep link expects:
// query escaping with spaces as %20 rather than +.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
