// Package payload turns a content variant and its typed input fields into
// the canonical wire-format string handed to the QR encoder. Validation and
// construction are pure; the only collaborator is the payment encoder.
package payload

// Variant selects which real-world intent is being encoded. Exactly one
// variant is active at a time; the values double as the public API names.
type Variant string

const (
	VariantLink      Variant = "url"
	VariantText      Variant = "text"
	VariantPhone     Variant = "phone"
	VariantEmail     Variant = "email"
	VariantWiFi      Variant = "wifi"
	VariantSMS       Variant = "sms"
	VariantWhatsApp  Variant = "whatsapp"
	VariantVCard     Variant = "vcard"
	VariantPromptPay Variant = "promptpay"
	VariantFile      Variant = "file"
)

// ParseVariant maps a request string to a Variant, defaulting to url.
func ParseVariant(s string) Variant {
	switch Variant(s) {
	case VariantText, VariantPhone, VariantEmail, VariantWiFi, VariantSMS,
		VariantWhatsApp, VariantVCard, VariantPromptPay, VariantFile:
		return Variant(s)
	default:
		return VariantLink
	}
}

// WiFiSecurity is the network's protection mode. The values are the
// protocol tokens emitted into the WIFI: payload.
type WiFiSecurity string

const (
	SecurityWPA  WiFiSecurity = "WPA"
	SecurityOpen WiFiSecurity = "nopass"
)

// ParseWiFiSecurity maps a request string to a WiFiSecurity, defaulting
// to WPA.
func ParseWiFiSecurity(s string) WiFiSecurity {
	if WiFiSecurity(s) == SecurityOpen {
		return SecurityOpen
	}
	return SecurityWPA
}

// IDKind classifies a PromptPay identifier.
type IDKind string

const (
	IDKindMobile  IDKind = "mobile"
	IDKindCitizen IDKind = "citizen"
	IDKindTax     IDKind = "tax"
	IDKindEWallet IDKind = "ewallet"
)

// ParseIDKind maps a request string to an IDKind, defaulting to mobile.
func ParseIDKind(s string) IDKind {
	switch IDKind(s) {
	case IDKindCitizen, IDKindTax, IDKindEWallet:
		return IDKind(s)
	default:
		return IDKindMobile
	}
}

// WiFiFields holds the wifi variant's inputs.
type WiFiFields struct {
	SSID     string
	Password string
	Security WiFiSecurity
}

// MessageFields holds the sms and whatsapp variants' inputs. Both variants
// share one record, matching the retained-state model: switching between
// them keeps the phone and message.
type MessageFields struct {
	Phone   string
	Message string
}

// ContactFields holds the vcard variant's inputs.
type ContactFields struct {
	FirstName string
	LastName  string
	Mobile    string
	WorkPhone string
	Email     string
	Website   string
	Company   string
	JobTitle  string
	Street    string
	City      string
	Country   string
}

// PromptPayFields holds the promptpay variant's inputs. Amount is a decimal
// string; empty or non-positive means "no fixed amount".
type PromptPayFields struct {
	ID     string
	Amount string
	Kind   IDKind
}

// Fields is the retained per-variant state bag. Each variant reads only its
// own record; records for inactive variants persist untouched, so switching
// the active variant never loses input.
type Fields struct {
	// Content backs the url, text, phone and email variants.
	Content string

	WiFi      WiFiFields
	Message   MessageFields
	Contact   ContactFields
	PromptPay PromptPayFields

	// FileURL is the durable resource URL produced by the upload
	// collaborator; this package only consumes it.
	FileURL string
}

// Verdict is the outcome of validating a variant's fields. A zero Verdict
// is valid; an invalid one carries a user-facing reason.
type Verdict struct {
	Reason string
}

// Valid reports whether the verdict allows payload construction.
func (v Verdict) Valid() bool { return v.Reason == "" }

// Invalid builds a failing verdict with a user-facing reason.
func Invalid(reason string) Verdict { return Verdict{Reason: reason} }
