package xmlconv

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"stovokor"
	"stovokor/gen"
)

// substitutor evaluates one substitution definition against matched elements.
// With the Cached policy equal element texts map to equal generated values
// for the substitutor's lifetime.
type substitutor struct {
	def   stovokor.SubstitutionDef
	cache map[string]string
}

func newSubstitutor(def stovokor.SubstitutionDef) *substitutor {
	return &substitutor{
		def:   def,
		cache: make(map[string]string),
	}
}

func (s *substitutor) next(element *xmlquery.Node) (string, error) {
	text := element.InnerText()
	if s.def.Policy == stovokor.Cached {
		if value, ok := s.cache[text]; ok {
			return value, nil
		}
	}
	args := strings.Fields(s.def.GenValue)
	for i, arg := range args {
		args[i] = expandParam(arg, text)
	}
	value, err := gen.Generate(args)
	if err != nil {
		return "", err
	}
	s.cache[text] = value
	return value, nil
}

// expandParam handles the special parameters of generator expressions:
//
//	#text  the current element text
//	#len   the current element text length
//	##...  a literal # prefix
func expandParam(arg, text string) string {
	switch {
	case arg == "#text":
		return text
	case arg == "#len":
		return strconv.Itoa(len(text))
	case strings.HasPrefix(arg, "##"):
		return arg[1:]
	}
	return arg
}
