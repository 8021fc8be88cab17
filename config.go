// Package stovokor holds the configuration and error taxonomy shared by the
// XML obfuscation tool and its value generators.
package stovokor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config is loaded from the environment during execution with cmd/stovokor
type Config struct {
	// LogLevel is the minimum level to log, one of: debug, info, warn,
	// error or fatal
	LogLevel string `envconfig:"STOVOKOR_LOG_LEVEL" default:"info"`

	// LogFormat sets the log output format, either text or json
	LogFormat string `envconfig:"STOVOKOR_LOG_FORMAT" default:"text"`
}

// Policy decides how often a generator expression is evaluated for one XPath.
type Policy uint8

const (
	// Always evaluates the expression for each matched element.
	Always Policy = iota

	// Cached evaluates the expression once per distinct element text and
	// reuses the result. Use it when equal inputs must obfuscate to equal
	// outputs, e.g. the same account number appearing in many records.
	Cached
)

func (p *Policy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "always":
		*p = Always
	case "cached":
		*p = Cached
	default:
		return fmt.Errorf("unknown policy %q", s)
	}
	return nil
}

func (p Policy) String() string {
	if p == Cached {
		return "cached"
	}
	return "always"
}

// SubstitutionDef defines how matched values are substituted: a generator
// expression plus the evaluation policy.
type SubstitutionDef struct {
	GenValue string
	Policy   Policy
}

// Rules is the parsed JSON rules file driving a conversion run.
type Rules struct {
	// Comments adds an XML comment before each processed element.
	Comments bool

	// MultipleXMLs allows several XML documents in a single input file,
	// split on their <?xml declarations.
	MultipleXMLs bool

	// XPaths maps XPath expressions to substitution definitions.
	XPaths map[string]SubstitutionDef
}

// rulesFile mirrors the JSON layout of the rules file. Substitution values may
// be a plain string, an object with gen_value and policy, or a reference to a
// predef entry.
type rulesFile struct {
	Conf struct {
		Comments           *bool `json:"comments"`
		MultipleXMLsInFile *bool `json:"multiple_xmls_in_file"`
	} `json:"conf"`
	Predef map[string]json.RawMessage `json:"predef"`
	XPaths map[string]json.RawMessage `json:"xpaths"`
}

// ParseRules reads the rules file and applies the optional override, a JSON
// string whose predef and conf sections replace entries of the file's.
func ParseRules(path, override string) (*Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var file rulesFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	if override != "" {
		if err := applyOverride(&file, override); err != nil {
			return nil, fmt.Errorf("applying override: %w", err)
		}
	}

	predefs := make(map[string]SubstitutionDef, len(file.Predef))
	for key, raw := range file.Predef {
		def, err := parseSubstitutionDef(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("predef %q: %w", key, err)
		}
		predefs[key] = def
	}

	rules := &Rules{XPaths: make(map[string]SubstitutionDef, len(file.XPaths))}
	for xpath, raw := range file.XPaths {
		def, err := parseSubstitutionDef(raw, predefs)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", xpath, err)
		}
		rules.XPaths[xpath] = def
	}
	if file.Conf.Comments != nil {
		rules.Comments = *file.Conf.Comments
	}
	if file.Conf.MultipleXMLsInFile != nil {
		rules.MultipleXMLs = *file.Conf.MultipleXMLsInFile
	}
	return rules, nil
}

func applyOverride(file *rulesFile, override string) error {
	var over rulesFile
	if err := json.Unmarshal([]byte(override), &over); err != nil {
		return err
	}
	for key, raw := range over.Predef {
		if file.Predef == nil {
			file.Predef = make(map[string]json.RawMessage)
		}
		file.Predef[key] = raw
	}
	if over.Conf.Comments != nil {
		file.Conf.Comments = over.Conf.Comments
	}
	if over.Conf.MultipleXMLsInFile != nil {
		file.Conf.MultipleXMLsInFile = over.Conf.MultipleXMLsInFile
	}
	return nil
}

func parseSubstitutionDef(raw json.RawMessage, predefs map[string]SubstitutionDef) (SubstitutionDef, error) {
	var expr string
	if err := json.Unmarshal(raw, &expr); err == nil {
		return SubstitutionDef{GenValue: expr}, nil
	}
	var obj struct {
		Predef   string `json:"predef"`
		GenValue string `json:"gen_value"`
		Policy   Policy `json:"policy"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return SubstitutionDef{}, fmt.Errorf("expected string or object: %w", err)
	}
	if obj.Predef != "" {
		def, ok := predefs[obj.Predef]
		if !ok {
			return SubstitutionDef{}, fmt.Errorf("invalid predef key %q", obj.Predef)
		}
		return def, nil
	}
	if obj.GenValue == "" {
		return SubstitutionDef{}, fmt.Errorf("missing gen_value")
	}
	return SubstitutionDef{GenValue: obj.GenValue, Policy: obj.Policy}, nil
}
