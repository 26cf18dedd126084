package payload

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	phoneRe   = regexp.MustCompile(`^\+?\d{7,15}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobileRe  = regexp.MustCompile(`^0\d{9}$`)
	citizenRe = regexp.MustCompile(`^\d{13}$`)
)

// stripPhone removes spaces and hyphens before digit checks.
func stripPhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

func validAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// Validate checks the active variant's fields and returns a verdict.
// Deterministic, no I/O; the first failing rule wins.
func Validate(variant Variant, f Fields) Verdict {
	switch variant {
	case VariantLink:
		if f.Content == "" {
			return Invalid("enter a URL")
		}
		if !validAbsoluteURL(f.Content) {
			return Invalid("URL must be absolute (start with http:// or https://)")
		}
	case VariantText:
		if f.Content == "" {
			return Invalid("enter some text")
		}
	case VariantPhone:
		if f.Content == "" {
			return Invalid("enter a phone number")
		}
		if !phoneRe.MatchString(stripPhone(f.Content)) {
			return Invalid("phone number must be 7-15 digits, optionally starting with +")
		}
	case VariantEmail:
		if f.Content == "" {
			return Invalid("enter an email address")
		}
		if !emailRe.MatchString(f.Content) {
			return Invalid("email address is not valid")
		}
	case VariantWiFi:
		if f.WiFi.SSID == "" {
			return Invalid("enter the WiFi network name")
		}
		if f.WiFi.Security == SecurityWPA && f.WiFi.Password == "" {
			return Invalid("enter the WiFi password")
		}
	case VariantSMS, VariantWhatsApp:
		if f.Message.Phone == "" {
			return Invalid("enter a phone number")
		}
		if !phoneRe.MatchString(stripPhone(f.Message.Phone)) {
			return Invalid("phone number must be 7-15 digits, optionally starting with +")
		}
		if f.Message.Message == "" {
			return Invalid("enter a message")
		}
	case VariantVCard:
		if f.Contact.FirstName == "" && f.Contact.LastName == "" {
			return Invalid("enter a first or last name")
		}
		// Only one of the optional checks runs; email takes precedence
		// over website when both are present.
		if f.Contact.Email != "" {
			if !emailRe.MatchString(f.Contact.Email) {
				return Invalid("email address is not valid")
			}
		} else if f.Contact.Website != "" {
			if !validAbsoluteURL(f.Contact.Website) {
				return Invalid("website must be absolute (start with http:// or https://)")
			}
		}
	case VariantPromptPay:
		if f.PromptPay.ID == "" {
			return Invalid("enter a PromptPay identifier")
		}
		cleaned := stripPhone(f.PromptPay.ID)
		switch f.PromptPay.Kind {
		case IDKindMobile:
			if !mobileRe.MatchString(cleaned) {
				return Invalid("mobile number must start with 0 and have 10 digits")
			}
		case IDKindCitizen:
			if !citizenRe.MatchString(cleaned) {
				return Invalid("national ID must have exactly 13 digits")
			}
		case IDKindEWallet:
			if cleaned == "" {
				return Invalid("enter an e-Wallet ID")
			}
		}
	case VariantFile:
		if f.FileURL == "" {
			return Invalid("upload a file first")
		}
	}
	return Verdict{}
}
