package iban

import (
	"fmt"
	"strings"
)

// spec describes the BBAN layout of one country. checkPrefix is the number of
// national check characters preceding the bank code (only Italy here). The
// account field always sits at the end of the BBAN and includes any trailing
// national check digit.
type spec struct {
	bbanLength  int
	checkPrefix int
	bank        int
	branch      int
	account     int
}

// registry holds the countries this tool supports. Field lengths follow the
// ECBS IBAN registry, except that bank and branch digits that national formats
// treat as one block are combined into the bank code (Finland's 6-digit
// bank/branch block, for example) so that regeneration preserves the whole
// institution part.
var registry = map[string]spec{
	"AT": {bbanLength: 16, bank: 5, account: 11},
	"BE": {bbanLength: 12, bank: 3, account: 9},
	"CH": {bbanLength: 17, bank: 5, account: 12},
	"DE": {bbanLength: 18, bank: 8, account: 10},
	"DK": {bbanLength: 14, bank: 4, account: 10},
	"EE": {bbanLength: 16, bank: 2, account: 14},
	"ES": {bbanLength: 20, bank: 4, branch: 4, account: 12},
	"FI": {bbanLength: 14, bank: 6, account: 8},
	"FR": {bbanLength: 23, bank: 5, branch: 5, account: 13},
	"GB": {bbanLength: 18, bank: 4, branch: 6, account: 8},
	"IE": {bbanLength: 18, bank: 4, branch: 6, account: 8},
	"IT": {bbanLength: 23, checkPrefix: 1, bank: 5, branch: 5, account: 12},
	"LT": {bbanLength: 16, bank: 5, account: 11},
	"LV": {bbanLength: 17, bank: 4, account: 13},
	"NL": {bbanLength: 14, bank: 4, account: 10},
	"NO": {bbanLength: 11, bank: 4, account: 7},
	"PL": {bbanLength: 24, bank: 3, branch: 4, account: 17},
	"PT": {bbanLength: 21, bank: 4, branch: 4, account: 13},
	"SE": {bbanLength: 20, bank: 3, account: 17},
}

func specFor(countryCode string) (spec, error) {
	s, ok := registry[strings.ToUpper(countryCode)]
	if !ok {
		return spec{}, fmt.Errorf("unknown country code %q", countryCode)
	}
	return s, nil
}

// Countries lists the country codes present in the registry.
func Countries() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
