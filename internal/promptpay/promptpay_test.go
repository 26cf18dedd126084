package promptpay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMobileStatic(t *testing.T) {
	// Matches the published PromptPay reference payload for 089-999-9999.
	got, err := New().Encode(ProxyMSISDN, "0899999999", 0)
	require.NoError(t, err)
	assert.Equal(t,
		"00020101021129370016A000000677010111011300668999999995802TH53037646304FE29",
		got)
}

func TestEncodeMobileVariants(t *testing.T) {
	got, err := New().Encode(ProxyMSISDN, "0812345678", 0)
	require.NoError(t, err)
	assert.Equal(t,
		"00020101021129370016A000000677010111011300668123456785802TH530376463045D82",
		got)
}

func TestEncodeMobileWithAmountIsDynamic(t *testing.T) {
	got, err := New().Encode(ProxyMSISDN, "0812345678", 10.50)
	require.NoError(t, err)
	assert.Equal(t,
		"00020101021229370016A000000677010111011300668123456785802TH5303764540510.50630446A6",
		got)
	assert.Contains(t, got, "010212", "amount makes the payload dynamic")
	assert.Contains(t, got, "540510.50")
}

func TestEncodeNationalID(t *testing.T) {
	got, err := New().Encode(ProxyNatID, "1234567890123", 0)
	require.NoError(t, err)
	assert.Equal(t,
		"00020101021129370016A000000677010111021312345678901235802TH53037646304EC40",
		got)
}

func TestEncodeEWallet(t *testing.T) {
	got, err := New().Encode(ProxyEWallet, "004999123456789", 0)
	require.NoError(t, err)
	assert.Contains(t, got, "0315004999123456789", "subtag 03 carries the wallet id")
	assert.True(t, strings.HasPrefix(got, "000201"))
	// CRC tag is always last: tag 63, length 04, four uppercase hex digits.
	assert.Regexp(t, `6304[0-9A-F]{4}$`, got)
}

func TestEncodeRejectsBadInput(t *testing.T) {
	enc := New()

	_, err := enc.Encode(ProxyMSISDN, "", 0)
	assert.Error(t, err)

	_, err = enc.Encode(ProxyMSISDN, "123", 0)
	assert.Error(t, err)

	_, err = enc.Encode(ProxyNatID, "12345", 0)
	assert.Error(t, err)

	_, err = enc.Encode(ProxyType("BOGUS"), "0812345678", 0)
	assert.Error(t, err)
}

func TestChecksumKnownValue(t *testing.T) {
	// CRC-16/CCITT-FALSE check value for "123456789".
	assert.Equal(t, uint16(0x29B1), checksum("123456789"))
}
