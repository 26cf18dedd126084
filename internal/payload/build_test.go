package payload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhalong/qrstudio/internal/promptpay"
)

const testFallback = "https://qr.example.com"

// fakeEncoder records the arguments the builder passes through.
type fakeEncoder struct {
	proxy  promptpay.ProxyType
	target string
	amount float64
	out    string
	err    error
}

func (f *fakeEncoder) Encode(proxy promptpay.ProxyType, target string, amount float64) (string, error) {
	f.proxy, f.target, f.amount = proxy, target, amount
	return f.out, f.err
}

func newTestBuilder(enc PaymentEncoder) *Builder {
	if enc == nil {
		enc = &fakeEncoder{out: "ENCODED"}
	}
	return NewBuilder(testFallback, enc, nil)
}

func TestBuildFallsBackOnInvalidVerdict(t *testing.T) {
	b := newTestBuilder(nil)
	for _, variant := range []Variant{
		VariantLink, VariantText, VariantPhone, VariantEmail, VariantWiFi,
		VariantSMS, VariantWhatsApp, VariantVCard, VariantPromptPay, VariantFile,
	} {
		got := b.Build(variant, Fields{}, Invalid("nope"))
		assert.Equal(t, testFallback, got, "variant %s", variant)
	}
}

func TestBuildLinkIdentity(t *testing.T) {
	b := newTestBuilder(nil)
	f := Fields{Content: "https://example.com/a?b=c"}
	got := b.Build(VariantLink, f, Validate(VariantLink, f))
	assert.Equal(t, "https://example.com/a?b=c", got)
}

func TestBuildSimpleSchemes(t *testing.T) {
	b := newTestBuilder(nil)

	f := Fields{Content: "0812345678"}
	assert.Equal(t, "tel:0812345678", b.Build(VariantPhone, f, Validate(VariantPhone, f)))

	f = Fields{Content: "ada@example.com"}
	assert.Equal(t, "mailto:ada@example.com", b.Build(VariantEmail, f, Validate(VariantEmail, f)))

	f = Fields{Content: "just text"}
	assert.Equal(t, "just text", b.Build(VariantText, f, Validate(VariantText, f)))
}

func TestBuildWiFi(t *testing.T) {
	b := newTestBuilder(nil)
	f := Fields{WiFi: WiFiFields{SSID: "Cafe", Password: "secret1", Security: SecurityWPA}}
	got := b.Build(VariantWiFi, f, Validate(VariantWiFi, f))
	assert.Equal(t, "WIFI:T:WPA;S:Cafe;P:secret1;;", got)
}

func TestBuildWiFiDoesNotEscapeSemicolons(t *testing.T) {
	// Known interoperability gap: SSIDs containing reserved characters are
	// emitted raw, matching what scanners in the wild expect.
	b := newTestBuilder(nil)
	f := Fields{WiFi: WiFiFields{SSID: "Ca;fe", Password: "p;w", Security: SecurityWPA}}
	got := b.Build(VariantWiFi, f, Validate(VariantWiFi, f))
	assert.Equal(t, "WIFI:T:WPA;S:Ca;fe;P:p;w;;", got)
}

func TestBuildMessages(t *testing.T) {
	b := newTestBuilder(nil)
	f := Fields{Message: MessageFields{Phone: "0812345678", Message: "see you at 5"}}

	assert.Equal(t, "SMSTO:0812345678:see you at 5",
		b.Build(VariantSMS, f, Validate(VariantSMS, f)))

	// Spaces become %20, not +, to match the deep link's expectations.
	assert.Equal(t, "https://wa.me/0812345678?text=see%20you%20at%205",
		b.Build(VariantWhatsApp, f, Validate(VariantWhatsApp, f)))
}

func TestBuildVCardLineOrder(t *testing.T) {
	b := newTestBuilder(nil)
	f := Fields{Contact: ContactFields{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Mobile:    "0811111111",
		WorkPhone: "022222222",
		Email:     "ada@example.com",
		Website:   "https://ada.example.com",
		Company:   "Analytical Engines",
		JobTitle:  "Programmer",
		Street:    "1 Engine Rd",
		City:      "London",
		Country:   "UK",
	}}
	want := "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"N:Lovelace;Ada;;;\n" +
		"FN:Ada Lovelace\n" +
		"ORG:Analytical Engines\n" +
		"TITLE:Programmer\n" +
		"TEL;TYPE=CELL:0811111111\n" +
		"TEL;TYPE=WORK:022222222\n" +
		"EMAIL:ada@example.com\n" +
		"URL:https://ada.example.com\n" +
		"ADR;TYPE=WORK:;;1 Engine Rd;London;;UK\n" +
		"END:VCARD"
	assert.Equal(t, want, b.Build(VariantVCard, f, Validate(VariantVCard, f)))
}

func TestBuildPromptPayMapsKindsAndStrips(t *testing.T) {
	tests := []struct {
		name       string
		f          PromptPayFields
		wantProxy  promptpay.ProxyType
		wantTarget string
	}{
		{"mobile", PromptPayFields{ID: "081-234-5678", Kind: IDKindMobile}, promptpay.ProxyMSISDN, "0812345678"},
		{"citizen", PromptPayFields{ID: "1234567890123", Kind: IDKindCitizen}, promptpay.ProxyNatID, "1234567890123"},
		{"tax maps to natid", PromptPayFields{ID: "1234567890123", Kind: IDKindTax}, promptpay.ProxyNatID, "1234567890123"},
		{"ewallet", PromptPayFields{ID: "004999123456789", Kind: IDKindEWallet}, promptpay.ProxyEWallet, "004999123456789"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := &fakeEncoder{out: "ENCODED"}
			b := newTestBuilder(enc)
			f := Fields{PromptPay: tt.f}
			got := b.Build(VariantPromptPay, f, Validate(VariantPromptPay, f))
			require.Equal(t, "ENCODED", got)
			assert.Equal(t, tt.wantProxy, enc.proxy)
			assert.Equal(t, tt.wantTarget, enc.target)
		})
	}
}

func TestBuildPromptPayAmount(t *testing.T) {
	t.Run("positive amount forwarded", func(t *testing.T) {
		enc := &fakeEncoder{out: "ENCODED"}
		b := newTestBuilder(enc)
		f := Fields{PromptPay: PromptPayFields{ID: "0812345678", Amount: "10.50", Kind: IDKindMobile}}
		b.Build(VariantPromptPay, f, Validate(VariantPromptPay, f))
		assert.Equal(t, 10.50, enc.amount)
	})
	t.Run("unparseable or non-positive amount absent", func(t *testing.T) {
		for _, amount := range []string{"", "abc", "0", "-5"} {
			enc := &fakeEncoder{out: "ENCODED"}
			b := newTestBuilder(enc)
			f := Fields{PromptPay: PromptPayFields{ID: "0812345678", Amount: amount, Kind: IDKindMobile}}
			b.Build(VariantPromptPay, f, Validate(VariantPromptPay, f))
			assert.Zero(t, enc.amount, "amount %q", amount)
		}
	})
}

func TestBuildPromptPayEncoderFailureFallsBack(t *testing.T) {
	enc := &fakeEncoder{err: errors.New("boom")}
	b := newTestBuilder(enc)
	f := Fields{PromptPay: PromptPayFields{ID: "0812345678", Kind: IDKindMobile}}
	got := b.Build(VariantPromptPay, f, Validate(VariantPromptPay, f))
	assert.Equal(t, testFallback, got)
}

func TestBuildFileURLVerbatim(t *testing.T) {
	b := newTestBuilder(nil)
	f := Fields{FileURL: "https://cdn.example.com/uploads/report.pdf"}
	got := b.Build(VariantFile, f, Validate(VariantFile, f))
	assert.Equal(t, "https://cdn.example.com/uploads/report.pdf", got)
}
