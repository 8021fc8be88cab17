// Package bankaccount generates and regenerates IBAN and BBAN numbers as
// synthetic test data. Regeneration keeps the country and bank/branch part of
// an existing number and replaces the account part with fresh digits,
// honoring each country's own control digit rules on top of the plain IBAN
// structure.
//
// See:
// https://en.wikipedia.org/wiki/International_Bank_Account_Number
// https://www.ecbs.org/iban.htm
package bankaccount

import (
	"fmt"
	"log/slog"

	"stovokor"
	"stovokor/iban"
	"stovokor/internal/random"
)

// Generator produces bank account numbers for one country. Instances are
// short-lived: allocate one per generation session and do not share across
// concurrent callers, the Swedish variant keeps per-instance state.
type Generator struct {
	country string
	warn    bool
	warned  bool
	logger  *slog.Logger

	// Country variants override only the behavior that differs from the
	// base rules.
	accountPart  func(bankCode string) (string, error)
	assembleBank func(bankCode string) (iban.IBAN, error)
	regenerate   func(old iban.IBAN) (iban.IBAN, error)
	toIBAN       func(bban string) (iban.IBAN, error)
	toBBAN       func(i iban.IBAN) string
}

// variants is the closed set of country specializations. Denmark has no
// documented peculiarity beyond the IBAN structure, so it uses the base rules
// with warnings off.
var variants = map[string]func() *Generator{
	"FI": newFinland,
	"NO": newNorway,
	"IT": newItaly,
	"SE": newSweden,
	"DK": func() *Generator { return newBase("DK", false) },
}

// New returns the generator for a country, falling back to the base rules for
// countries without a dedicated variant.
func New(countryCode string) (*Generator, error) {
	if len(countryCode) != 2 {
		return nil, fmt.Errorf("country code must have 2 letters, got %q", countryCode)
	}
	if variant, ok := variants[countryCode]; ok {
		return variant(), nil
	}
	return newBase(countryCode, true), nil
}

func newBase(countryCode string, warn bool) *Generator {
	g := &Generator{
		country: countryCode,
		warn:    warn,
		logger:  slog.Default().With("generator", "bankaccount", "country", countryCode),
	}
	g.accountPart = g.baseAccountPart
	g.assembleBank = g.baseAssemble
	g.regenerate = g.baseRegenerate
	g.toIBAN = g.baseToIBAN
	g.toBBAN = func(i iban.IBAN) string { return i.BBAN() }
	return g
}

// GenerateIBAN generates a random IBAN with a random bank code and account
// number. The bank code may not belong to any real bank; use RegenerateIBAN
// to obfuscate an existing number instead.
func (g *Generator) GenerateIBAN() (iban.IBAN, error) {
	lengths, err := iban.Lengths(g.country)
	if err != nil {
		return iban.IBAN{}, err
	}
	bankCode := random.Digits(lengths.BankCode + lengths.BranchCode)
	return g.GenerateIBANForBank(bankCode)
}

// GenerateIBANForBank generates an IBAN for the given combined bank+branch
// code.
func (g *Generator) GenerateIBANForBank(bankCode string) (iban.IBAN, error) {
	return g.assembleBank(bankCode)
}

// RegenerateIBAN replaces the account number of old while keeping the country
// and bank part. old should be valid and belong to this generator's country.
func (g *Generator) RegenerateIBAN(old iban.IBAN) (iban.IBAN, error) {
	return g.regenerate(old)
}

// RegenerateBBAN replaces the account number of a national BBAN while keeping
// the bank part. An old value that does not parse as a known national format
// is returned unmodified so a batch run can proceed past it.
func (g *Generator) RegenerateBBAN(old string) (string, error) {
	ib, err := g.toIBAN(old)
	if err != nil {
		g.logger.Warn("old BBAN is invalid, leaving it unmodified", "bban", old, "error", err)
		return old, nil
	}
	regenerated, err := g.regenerate(ib)
	if err != nil {
		return "", err
	}
	return g.toBBAN(regenerated), nil
}

// baseAccountPart draws random digits with the length the IBAN registry
// mandates for the country's account field. Some countries restrict the
// account number further; those need a dedicated variant.
func (g *Generator) baseAccountPart(bankCode string) (string, error) {
	if g.warn && !g.warned {
		g.logger.Warn("no dedicated rule for country, generating a number which is a correct IBAN but not necessarily a correct country-specific number")
		g.warned = true
	}
	lengths, err := iban.Lengths(g.country)
	if err != nil {
		return "", err
	}
	return random.Digits(lengths.AccountCode), nil
}

func (g *Generator) baseAssemble(bankCode string) (iban.IBAN, error) {
	accountPart, err := g.accountPart(bankCode)
	if err != nil {
		return iban.IBAN{}, err
	}
	ib, err := iban.Assemble(g.country, bankCode, accountPart)
	if err != nil {
		return iban.IBAN{}, &stovokor.InternalError{Op: "iban generation", Err: err}
	}
	return ib, nil
}

func (g *Generator) baseRegenerate(old iban.IBAN) (iban.IBAN, error) {
	return g.GenerateIBANForBank(old.BankCode() + old.BranchCode())
}

func (g *Generator) baseToIBAN(bban string) (iban.IBAN, error) {
	return iban.FromBBAN(g.country, bban)
}

// RegenerateIBAN replaces the account number in an IBAN string, keeping the
// country and bank part. An old value that does not parse is logged and
// returned unmodified.
func RegenerateIBAN(old string) (string, error) {
	ib, err := iban.Parse(old)
	if err != nil {
		slog.Warn("old IBAN is invalid, leaving it unmodified", "iban", old, "error", err)
		return old, nil
	}
	g, err := New(ib.CountryCode())
	if err != nil {
		return "", err
	}
	regenerated, err := g.RegenerateIBAN(ib)
	if err != nil {
		return "", err
	}
	return regenerated.String(), nil
}

// GenerateIBAN generates a random IBAN for a country. The bank code may not
// belong to any real bank.
func GenerateIBAN(countryCode string) (string, error) {
	g, err := New(countryCode)
	if err != nil {
		return "", err
	}
	ib, err := g.GenerateIBAN()
	if err != nil {
		return "", err
	}
	return ib.String(), nil
}

// RegenerateBBAN replaces the account number in a national BBAN string,
// keeping the bank part.
func RegenerateBBAN(countryCode, old string) (string, error) {
	g, err := New(countryCode)
	if err != nil {
		return "", err
	}
	return g.RegenerateBBAN(old)
}
