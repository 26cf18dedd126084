// Package promptpay encodes PromptPay "any id" payment payloads in the
// EMVCo merchant-presented TLV format, including the CRC-16 checksum tag.
package promptpay

import (
	"fmt"
	"strconv"
	"strings"
)

// ProxyType classifies a payment target identifier on the PromptPay network.
type ProxyType string

const (
	ProxyMSISDN  ProxyType = "MSISDN"
	ProxyNatID   ProxyType = "NATID"
	ProxyEWallet ProxyType = "EWALLETID"
)

// PromptPay application ID carried in the merchant account information tag.
const applicationID = "A000000677010111"

// Encoder produces PromptPay payload strings.
type Encoder struct{}

// New returns an Encoder.
func New() *Encoder { return &Encoder{} }

// Encode builds the payload for the given proxy type and target. A positive
// amount makes the payload dynamic (fixed amount, tag 54); zero or negative
// means no amount and a static payload.
func (e *Encoder) Encode(proxy ProxyType, target string, amount float64) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("promptpay: empty target")
	}

	var sub string
	switch proxy {
	case ProxyMSISDN:
		sub = "01"
		if len(target) != 10 || !allDigits(target) {
			return "", fmt.Errorf("promptpay: MSISDN target must be 10 digits, got %q", target)
		}
		// National number in international form: 0066 + number without
		// the leading zero.
		target = "0066" + strings.TrimPrefix(target, "0")
	case ProxyNatID:
		sub = "02"
		if len(target) != 13 || !allDigits(target) {
			return "", fmt.Errorf("promptpay: NATID target must be 13 digits, got %q", target)
		}
	case ProxyEWallet:
		sub = "03"
	default:
		return "", fmt.Errorf("promptpay: unknown proxy type %q", proxy)
	}

	pointOfInitiation := "11" // static
	if amount > 0 {
		pointOfInitiation = "12" // dynamic
	}

	merchant := tlv("00", applicationID) + tlv(sub, target)

	var b strings.Builder
	b.WriteString(tlv("00", "01"))
	b.WriteString(tlv("01", pointOfInitiation))
	b.WriteString(tlv("29", merchant))
	b.WriteString(tlv("58", "TH"))
	b.WriteString(tlv("53", "764")) // ISO 4217 THB
	if amount > 0 {
		b.WriteString(tlv("54", strconv.FormatFloat(amount, 'f', 2, 64)))
	}
	// The CRC tag covers everything up to and including its own tag+length.
	b.WriteString("6304")
	return b.String() + fmt.Sprintf("%04X", checksum(b.String())), nil
}

// tlv renders one tag-length-value element with a two-digit length.
func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// checksum is CRC-16/CCITT-FALSE: polynomial 0x1021, initial value 0xFFFF,
// no reflection, as required by the EMVCo QR specification.
func checksum(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
