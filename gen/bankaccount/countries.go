package bankaccount

import (
	"errors"
	"strconv"

	"stovokor"
	"stovokor/iban"
	"stovokor/internal/random"
)

// newFinland builds the generator for Finnish accounts. The last digit of the
// account is a Luhn control digit over the bank code and the random part.
//
// See:
// https://fi.wikipedia.org/wiki/Tilinumero
// https://fi.wikipedia.org/wiki/Luhnin_algoritmi
func newFinland() *Generator {
	g := newBase("FI", false)
	g.accountPart = func(bankCode string) (string, error) {
		randomPart := random.Digits(7)
		control := luhnChecksum(bankCode + randomPart)
		return randomPart + strconv.Itoa(control), nil
	}
	return g
}

// norwayMaxAttempts bounds the account number redraw loop. A draw is rejected
// with probability ~1/11, so the bound is unreachable in practice.
const norwayMaxAttempts = 256

// newNorway builds the generator for Norwegian accounts. The last digit is a
// MOD11 control digit over the bank code and the random part; a control value
// of 10 is not allowed and forces a new draw.
//
// See:
// https://no.wikipedia.org/wiki/Kontonummer
// https://no.wikipedia.org/wiki/MOD11
func newNorway() *Generator {
	g := newBase("NO", false)
	g.accountPart = func(bankCode string) (string, error) {
		for i := 0; i < norwayMaxAttempts; i++ {
			randomPart := random.Digits(6)
			control := weightedMod11(bankCode + randomPart)
			if control == 10 {
				continue
			}
			return randomPart + strconv.Itoa(control), nil
		}
		return "", &stovokor.InternalError{Op: "norwegian account generation", Err: errTooManyRedraws}
	}
	return g
}

var errTooManyRedraws = errors.New("control digit was 10 on every attempt")

// newItaly builds the generator for Italian accounts. Unlike most IBANs they
// carry a control character (CIN) before the bank code, so assembly builds
// the BBAN directly as CIN + bank code + account number.
func newItaly() *Generator {
	g := newBase("IT", false)
	g.assembleBank = func(bankCode string) (iban.IBAN, error) {
		accountPart, err := g.accountPart(bankCode)
		if err != nil {
			return iban.IBAN{}, err
		}
		cin := cinControlLetter(accountPart + bankCode)
		ib, err := iban.FromBBAN("IT", string(cin)+bankCode+accountPart)
		if err != nil {
			return iban.IBAN{}, &stovokor.InternalError{Op: "italian iban generation", Err: err}
		}
		return ib, nil
	}
	return g
}
