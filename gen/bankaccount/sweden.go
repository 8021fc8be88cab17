package bankaccount

import (
	"log/slog"
	"regexp"

	"stovokor"
	"stovokor/iban"
	"stovokor/internal/random"
)

// standardBBANLengthSE is the fixed length of the Swedish BBAN inside an IBAN.
const standardBBANLengthSE = 20

// mapping is one regex-to-template rewrite rule. The template uses ${n}
// references and the last capture group is always the account number.
type mapping struct {
	pattern  *regexp.Regexp
	template string
}

// Swedish IBANs look standard with 20 digits, but the national BBANs have
// bank-dependent lengths and layouts. These tables encode the known legacy
// formats in both directions.
//
// According to https://sv.wikipedia.org/wiki/International_Bank_Account_Number
//
//	Bank           Kontonummer          BIC-kod   IBAN
//	Danske bank    1bbb-aaa aaaa aaaa   DABASESX  SEkk 1200 0000 0aaa aaaa aaaa
//	Nordea         3bbb-aaa aaaa aaaa   NDEASESS  SEkk 3000 0000 0aaa aaaa aaaa
//	ICA-banken     927b-aaa aaaa        IBCASES1  SEkk 9270 0000 0927 baaa aaaa
//	SEB            5bbb-aaa aaaa        ESSESESS  SEkk 5000 0000 05bb baaa aaaa
//	Handelsbanken  6bbb-aaaaa aaaa      HANDSESS  SEkk 6000 0000 000a aaaa aaaa
//	Swedbank       7bbb-aaaaaaa         SWEDSESS  SEkk 8000 0000 07bb baaa aaaa
//	Swedbank       8bbbb,aa aaaa aaaa   SWEDSESS  SEkk 8000 08bb bbaa aaaa aaaa
//	Plusgirot      aaaaaaa-a            NDEASESS  SEkk 9500 0099 60nn aaaa aaaa
var bbanToIBANTable = []mapping{
	{regexp.MustCompile(`^1(\d{3})(\d{11})$`), "120000000${2}"},        // Danske
	{regexp.MustCompile(`^3(\d{3})(\d{11})$`), "300000000${2}"},        // Nordea
	{regexp.MustCompile(`^927(\d)(\d{7})$`), "927000000927${1}${2}"},   // ICA
	{regexp.MustCompile(`^5(\d{3})(\d{7})$`), "5000000005${1}${2}"},    // SEB
	{regexp.MustCompile(`^6(\d{3})(\d{9})$`), "60000000000${2}"},       // Handelsbanken
	{regexp.MustCompile(`^7(\d{3})(\d{7})$`), "8000000007${1}${2}"},    // Swedbank
	{regexp.MustCompile(`^8(\d{4})(\d{10})$`), "800008${1}${2}"},       // also Swedbank
	{regexp.MustCompile(`^(\d{9})$`), "95000099600${1}"},               // Plusgirot
}

// The forward mappings discard the branch digits, so the inverse templates
// fill them with zeros. The real branch is only recoverable through the
// discovered prefix cache of the instance that did the forward conversion.
var ibanToBBANTable = []mapping{
	{regexp.MustCompile(`^120000000(\d{11})$`), "1000${1}"},            // Danske
	{regexp.MustCompile(`^300000000(\d{11})$`), "3000${1}"},            // Nordea
	{regexp.MustCompile(`^927000000927(\d)(\d{7})$`), "927${1}${2}"},   // ICA
	{regexp.MustCompile(`^5000000005(\d{3})(\d{7})$`), "5${1}${2}"},    // SEB
	{regexp.MustCompile(`^60000000000(\d{9})$`), "6000${1}"},           // Handelsbanken
	{regexp.MustCompile(`^8000000007(\d{3})(\d{7})$`), "7${1}${2}"},    // Swedbank
	{regexp.MustCompile(`^800008(\d{4})(\d{10})$`), "8${1}${2}"},       // also Swedbank
	{regexp.MustCompile(`^95000099600(\d{9})$`), "${1}"},               // Plusgirot
}

// swedishMapper translates between the national BBAN formats and the 20-digit
// IBAN-internal form. The first conversion that matches a legacy format caches
// the bank prefix on both sides; later conversions and regenerations on the
// same instance reuse it. One instance therefore assumes all its inputs belong
// to the same bank, reuse across banks silently applies the first mapping.
type swedishMapper struct {
	logger *slog.Logger

	bbanPrefix string
	ibanPrefix string
}

// discovered keys on the internal-form prefix: the national prefix may be
// empty, Plusgirot numbers are all account digits.
func (m *swedishMapper) discovered() bool {
	return m.ibanPrefix != ""
}

// toInternal converts a national BBAN of any known format to the 20-digit
// IBAN-internal form. Unrecognized input is logged and returned unchanged.
func (m *swedishMapper) toInternal(bban string) string {
	if m.discovered() {
		if len(bban) < len(m.bbanPrefix) {
			m.logger.Warn("BBAN shorter than the discovered bank prefix", "bban", bban)
			return bban
		}
		return m.ibanPrefix + bban[len(m.bbanPrefix):]
	}
	if len(bban) == standardBBANLengthSE {
		return bban
	}
	for _, rule := range bbanToIBANTable {
		match := rule.pattern.FindStringSubmatch(bban)
		if match == nil {
			continue
		}
		internal := rule.pattern.ReplaceAllString(bban, rule.template)
		accountLen := len(match[len(match)-1])
		m.bbanPrefix = bban[:len(bban)-accountLen]
		m.ibanPrefix = internal[:standardBBANLengthSE-accountLen]
		m.logger.Debug("non-standard Swedish BBAN", "bankPart", m.ibanPrefix, "accountLen", accountLen)
		return internal
	}
	m.logger.Warn("unrecognized Swedish BBAN format", "bban", bban)
	return bban
}

// toNational converts the 20-digit IBAN-internal form back to the national
// BBAN. Standard-format input passes through unchanged.
func (m *swedishMapper) toNational(internal string) string {
	if m.discovered() {
		return m.bbanPrefix + internal[len(m.ibanPrefix):]
	}
	for _, rule := range ibanToBBANTable {
		match := rule.pattern.FindStringSubmatch(internal)
		if match == nil {
			continue
		}
		bban := rule.pattern.ReplaceAllString(internal, rule.template)
		accountLen := len(match[len(match)-1])
		m.bbanPrefix = bban[:len(bban)-accountLen]
		m.ibanPrefix = internal[:standardBBANLengthSE-accountLen]
		m.logger.Debug("special Swedish IBAN", "bankPart", m.ibanPrefix, "accountLen", accountLen)
		return bban
	}
	return internal
}

// newSweden builds the generator for Swedish accounts, wrapping the base
// rules with the legacy format mapper.
func newSweden() *Generator {
	g := newBase("SE", false)
	m := &swedishMapper{logger: g.logger}

	g.toIBAN = func(bban string) (iban.IBAN, error) {
		return iban.FromBBAN("SE", m.toInternal(bban))
	}
	g.toBBAN = func(i iban.IBAN) string {
		return m.toNational(i.BBAN())
	}

	regenerateStandard := g.regenerate
	g.regenerate = func(old iban.IBAN) (iban.IBAN, error) {
		// Convert to BBAN first so a special format gets discovered.
		m.toNational(old.BBAN())
		if !m.discovered() {
			return regenerateStandard(old)
		}
		account := random.Digits(standardBBANLengthSE - len(m.ibanPrefix))
		ib, err := iban.FromBBAN("SE", m.ibanPrefix+account)
		if err != nil {
			return iban.IBAN{}, &stovokor.InternalError{Op: "swedish iban generation", Err: err}
		}
		return ib, nil
	}
	return g
}
