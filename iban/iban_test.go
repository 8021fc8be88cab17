package iban

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stovokor"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		iban    string
		bank    string
		branch  string
		account string
	}{
		{iban: "FI2112345600000785", bank: "123456", branch: "", account: "00000785"},
		{iban: "NO9386011117947", bank: "8601", branch: "", account: "1117947"},
		{iban: "DK5000400440116243", bank: "0040", branch: "", account: "0440116243"},
		{iban: "SE4550000000058398257466", bank: "500", branch: "", account: "00000058398257466"},
		{iban: "IT60X0542811101000000123456", bank: "05428", branch: "11101", account: "000000123456"},
		{iban: "DE89370400440532013000", bank: "37040044", branch: "", account: "0532013000"},
		{iban: "GB33BUKB20201555555555", bank: "BUKB", branch: "202015", account: "55555555"},
	}
	for _, tt := range tests {
		t.Run(tt.iban, func(t *testing.T) {
			ib, err := Parse(tt.iban)
			require.NoError(t, err)
			assert.Equal(t, tt.iban, ib.String())
			assert.Equal(t, tt.iban[:2], ib.CountryCode())
			assert.Equal(t, tt.iban[2:4], ib.CheckDigits())
			assert.Equal(t, tt.iban[4:], ib.BBAN())
			assert.Equal(t, tt.bank, ib.BankCode())
			assert.Equal(t, tt.branch, ib.BranchCode())
			assert.Equal(t, tt.account, ib.AccountCode())
		})
	}
}

func TestParsePaperFormat(t *testing.T) {
	ib, err := Parse("fi21 1234 5600 0007 85")
	require.NoError(t, err)
	assert.Equal(t, "FI2112345600000785", ib.String())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		iban string
	}{
		{name: "empty", iban: ""},
		{name: "too short", iban: "FI21"},
		{name: "unknown country", iban: "XX2112345600000785"},
		{name: "wrong length", iban: "FI21123456000007"},
		{name: "check digits do not match", iban: "FI2112345600000786"},
		{name: "non-numeric check digits", iban: "FIAB12345600000785"},
		{name: "invalid character", iban: "FI21123456000007_5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.iban)
			assert.ErrorIs(t, err, stovokor.ErrInvalidFormat)
		})
	}
}

func TestFromBBAN(t *testing.T) {
	ib, err := FromBBAN("FI", "12345600000785")
	require.NoError(t, err)
	assert.Equal(t, "FI2112345600000785", ib.String())

	_, err = FromBBAN("FI", "123456")
	assert.Error(t, err, "wrong BBAN length")

	_, err = FromBBAN("ZZ", "12345600000785")
	assert.Error(t, err, "unknown country")
}

func TestFromBBANRoundTrip(t *testing.T) {
	ib, err := FromBBAN("SE", "50000000058398257466")
	require.NoError(t, err)

	parsed, err := Parse(ib.String())
	require.NoError(t, err)
	assert.Equal(t, ib.String(), parsed.String())
}

func TestAssemble(t *testing.T) {
	ib, err := Assemble("DK", "0040", "0440116243")
	require.NoError(t, err)
	assert.Equal(t, "DK5000400440116243", ib.String())
}

func TestAssemblePadsAccount(t *testing.T) {
	ib, err := Assemble("DK", "0040", "42")
	require.NoError(t, err)
	assert.Equal(t, "00400000000042", ib.BBAN())
}

func TestAssembleInvalid(t *testing.T) {
	_, err := Assemble("DK", "004", "0440116243")
	assert.Error(t, err, "bank code too short")

	_, err = Assemble("DK", "0040", "04401162431")
	assert.Error(t, err, "account code too long")
}

func TestLengths(t *testing.T) {
	lengths, err := Lengths("SE")
	require.NoError(t, err)
	assert.Equal(t, FieldLengths{BankCode: 3, BranchCode: 0, AccountCode: 17}, lengths)

	lengths, err = Lengths("IT")
	require.NoError(t, err)
	assert.Equal(t, FieldLengths{BankCode: 5, BranchCode: 5, AccountCode: 12}, lengths)

	_, err = Lengths("ZZ")
	assert.Error(t, err)
}

func TestCountries(t *testing.T) {
	codes := Countries()
	assert.Contains(t, codes, "FI")
	assert.Contains(t, codes, "SE")
	for _, code := range codes {
		assert.Len(t, code, 2)
	}
}
