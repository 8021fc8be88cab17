// Package iban implements the structural side of international bank account
// numbers: parsing, assembly from parts, ISO 7064 mod-97 check digits and the
// per-country field length registry. It knows nothing about national checksum
// schemes; those live with the generators that consume this package.
package iban

import (
	"fmt"
	"strings"

	"stovokor"
)

// FieldLengths describes how a country splits its BBAN into fields.
type FieldLengths struct {
	BankCode    int
	BranchCode  int
	AccountCode int
}

// IBAN is a validated account number in compact form.
type IBAN struct {
	value string
	spec  spec
}

// Lengths returns the field lengths for a country, or an error if the country
// is not in the registry.
func Lengths(countryCode string) (FieldLengths, error) {
	s, err := specFor(countryCode)
	if err != nil {
		return FieldLengths{}, err
	}
	return FieldLengths{
		BankCode:    s.bank,
		BranchCode:  s.branch,
		AccountCode: s.account,
	}, nil
}

// Parse validates s as an IBAN. Spaces are ignored and letters uppercased, so
// both compact and paper formats are accepted. Failures wrap
// stovokor.ErrInvalidFormat.
func Parse(s string) (IBAN, error) {
	v := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if len(v) < 5 {
		return IBAN{}, invalid(s, "too short")
	}
	sp, err := specFor(v[:2])
	if err != nil {
		return IBAN{}, invalid(s, err.Error())
	}
	if len(v) != 4+sp.bbanLength {
		return IBAN{}, invalid(s, fmt.Sprintf("expected %d characters for %s, got %d", 4+sp.bbanLength, v[:2], len(v)))
	}
	if !isDigits(v[2:4]) {
		return IBAN{}, invalid(s, "check digits must be numeric")
	}
	rem, err := mod97(v[4:] + v[:4])
	if err != nil {
		return IBAN{}, invalid(s, err.Error())
	}
	if rem != 1 {
		return IBAN{}, invalid(s, "check digits do not match")
	}
	return IBAN{value: v, spec: sp}, nil
}

func invalid(s, reason string) error {
	return fmt.Errorf("iban %q: %w: %s", s, stovokor.ErrInvalidFormat, reason)
}

// FromBBAN builds an IBAN from a country code and a national BBAN, computing
// the check digits.
func FromBBAN(countryCode, bban string) (IBAN, error) {
	sp, err := specFor(countryCode)
	if err != nil {
		return IBAN{}, err
	}
	bban = strings.ToUpper(bban)
	if len(bban) != sp.bbanLength {
		return IBAN{}, fmt.Errorf("bban %q: expected %d characters for %s, got %d", bban, sp.bbanLength, countryCode, len(bban))
	}
	rem, err := mod97(bban + countryCode + "00")
	if err != nil {
		return IBAN{}, fmt.Errorf("bban %q: %w", bban, err)
	}
	check := 98 - rem
	return IBAN{
		value: fmt.Sprintf("%s%02d%s", countryCode, check, bban),
		spec:  sp,
	}, nil
}

// Assemble builds an IBAN from a country code, a combined bank+branch code and
// an account code. The account code is left-padded with zeros to the length
// the country mandates.
func Assemble(countryCode, bankCode, accountCode string) (IBAN, error) {
	sp, err := specFor(countryCode)
	if err != nil {
		return IBAN{}, err
	}
	if len(bankCode) != sp.bank+sp.branch {
		return IBAN{}, fmt.Errorf("bank code %q: expected %d characters for %s, got %d", bankCode, sp.bank+sp.branch, countryCode, len(bankCode))
	}
	if len(accountCode) > sp.account {
		return IBAN{}, fmt.Errorf("account code %q: expected at most %d characters for %s, got %d", accountCode, sp.account, countryCode, len(accountCode))
	}
	padded := strings.Repeat("0", sp.account-len(accountCode)) + accountCode
	return FromBBAN(countryCode, strings.Repeat("0", sp.checkPrefix)+bankCode+padded)
}

// String returns the compact form.
func (i IBAN) String() string { return i.value }

// CountryCode returns the 2-letter country code.
func (i IBAN) CountryCode() string { return i.value[:2] }

// CheckDigits returns the two ISO check digits.
func (i IBAN) CheckDigits() string { return i.value[2:4] }

// BBAN returns the national part with country and check digits stripped.
func (i IBAN) BBAN() string { return i.value[4:] }

// BankCode returns the bank identifier part of the BBAN. For countries with a
// national check character before the bank code (Italy), that character is not
// part of the bank code.
func (i IBAN) BankCode() string {
	b := i.BBAN()
	return b[i.spec.checkPrefix : i.spec.checkPrefix+i.spec.bank]
}

// BranchCode returns the branch identifier part of the BBAN, empty for
// countries without one.
func (i IBAN) BranchCode() string {
	b := i.BBAN()
	start := i.spec.checkPrefix + i.spec.bank
	return b[start : start+i.spec.branch]
}

// AccountCode returns the account-holder-specific part of the BBAN.
func (i IBAN) AccountCode() string {
	b := i.BBAN()
	return b[len(b)-i.spec.account:]
}

// mod97 computes the ISO 7064 remainder of the rearranged string, with letters
// substituted by their numeric values (A=10 .. Z=35).
func mod97(s string) (int, error) {
	rem := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			rem = (rem*100 + int(c-'A') + 10) % 97
		default:
			return 0, fmt.Errorf("invalid character %q", c)
		}
	}
	return rem, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
