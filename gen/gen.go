// Package gen implements the value generators behind the obfuscation rules.
// A generator expression is a vector of arguments: the generator name followed
// by its options, e.g. "num -l 13" or "bban_regenerate -c SE 12345". The same
// vectors drive cmd/generate.
package gen

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"stovokor/gen/bankaccount"
	"stovokor/internal/random"
)

// Func generates a string from the arguments following the generator name.
type Func func(args []string) (string, error)

var registry = map[string]Func{
	"const":           genConst,
	"alphanum":        genAlphanum,
	"num":             genNum,
	"namelike":        genNamelike,
	"name_regenerate": genNameRegenerate,
	"uuid":            genUUID,
	"klingon":         genKlingon,
	"iban_random":     genIBANRandom,
	"iban_regenerate": genIBANRegenerate,
	"bban_regenerate": genBBANRegenerate,
}

// Names lists the available generators.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Generate runs the generator named by args[0] with the remaining arguments.
func Generate(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("missing generator name")
	}
	generate, ok := registry[args[0]]
	if !ok {
		return "", fmt.Errorf("unknown generator %q", args[0])
	}
	value, err := generate(args[1:])
	if err != nil {
		return "", fmt.Errorf("generator %s: %w", args[0], err)
	}
	return value, nil
}

// flagSet returns a quiet FlagSet, errors are returned instead of printed.
func flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// genConst returns its argument unchanged.
func genConst(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected exactly one value")
	}
	return args[0], nil
}

// genAlphanum returns a random alphanumeric string of length -l.
func genAlphanum(args []string) (string, error) {
	fs := flagSet("alphanum")
	length := fs.Int("l", 0, "generated string length")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *length <= 0 {
		return "", errors.New("length -l is required")
	}
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var b strings.Builder
	b.Grow(*length)
	for i := 0; i < *length; i++ {
		b.WriteByte(chars[random.IntBetween(0, len(chars)-1)])
	}
	return b.String(), nil
}

// genNum returns a random number, either -l digits long or drawn from
// [-min, -max]. With both, the value is capped at -l digits and zero-padded.
func genNum(args []string) (string, error) {
	fs := flagSet("num")
	length := fs.Int("l", -1, "generated number length")
	min := fs.Int("min", -1, "minimal value")
	max := fs.Int("max", -1, "maximal value")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	switch {
	case *min >= 0 && *max >= 0:
		upper := *max
		if *length >= 0 {
			if limit := pow10(*length) - 1; limit < upper {
				upper = limit
			}
		}
		if *min > upper {
			return "", fmt.Errorf("empty range: -min %d exceeds %d (-max capped to -l digits)", *min, upper)
		}
		num := fmt.Sprintf("%d", random.IntBetween(*min, upper))
		if *length >= 0 && len(num) < *length {
			num = strings.Repeat("0", *length-len(num)) + num
		}
		return num, nil
	case *length >= 0:
		return random.Digits(*length), nil
	}
	return "", errors.New("either -min and -max or -l is required")
}

func pow10(n int) int {
	result := 1
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}

// genNamelike returns two capitalized words with random letters.
func genNamelike(args []string) (string, error) {
	return random.CapitalizedRange(5, 10) + " " + random.CapitalizedRange(5, 10), nil
}

// genNameRegenerate replaces all letters in a name with random ones, keeping
// the word count and per-word lengths.
func genNameRegenerate(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected the old name as single argument")
	}
	parts := strings.Split(args[0], " ")
	for i, part := range parts {
		parts[i] = random.Capitalized(len(part))
	}
	return strings.Join(parts, " "), nil
}

// genUUID returns a random UUID.
func genUUID(args []string) (string, error) {
	return uuid.NewString(), nil
}

var klingonQuotes = []string{
	"baH", "Ghos", "gik'tal", "he' HImaH", "Mahk-cha", "Qapla'",
	"matlh! jol yIchu'", "taH pagh taHbe'", "Heh Cho'mruak tah",
}

// genKlingon returns a random Klingon quote.
func genKlingon(args []string) (string, error) {
	return random.Pick(klingonQuotes), nil
}

// genIBANRandom generates a random IBAN for the country given as argument.
// The bank code may not belong to any real bank; use iban_regenerate to
// obfuscate an existing number.
func genIBANRandom(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected a 2-letter country code as single argument")
	}
	return bankaccount.GenerateIBAN(args[0])
}

// genIBANRegenerate replaces the account number in an IBAN, keeping the
// country and bank part.
func genIBANRegenerate(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected the old IBAN as single argument")
	}
	return bankaccount.RegenerateIBAN(args[0])
}

// genBBANRegenerate replaces the account number in a BBAN, keeping the bank
// part. The country comes from the -c option: "bban_regenerate -c SE <old>".
func genBBANRegenerate(args []string) (string, error) {
	fs := flagSet("bban_regenerate")
	country := fs.String("c", "", "2-letter country code")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *country == "" {
		return "", errors.New("country code -c is required")
	}
	if fs.NArg() != 1 {
		return "", errors.New("expected the old BBAN as single argument")
	}
	return bankaccount.RegenerateBBAN(*country, fs.Arg(0))
}
