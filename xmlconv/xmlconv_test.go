package xmlconv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stovokor"
)

const accountsXML = `<?xml version="1.0" encoding="utf-8"?>
<Payments>
  <Payment>
    <Name>Very Secret Name</Name>
    <AccountNumber>FI2112345600000785</AccountNumber>
  </Payment>
  <Payment>
    <Name>Other Name</Name>
    <AccountNumber>FI2112345600000785</AccountNumber>
  </Payment>
</Payments>`

func elementTexts(t *testing.T, doc []byte, xpath string) []string {
	t.Helper()
	root, err := xmlquery.Parse(strings.NewReader(string(doc)))
	require.NoError(t, err)
	nodes, err := xmlquery.QueryAll(root, xpath)
	require.NoError(t, err)
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = n.InnerText()
	}
	return texts
}

func TestConvertConst(t *testing.T) {
	rules := &stovokor.Rules{
		XPaths: map[string]stovokor.SubstitutionDef{
			"//Name": {GenValue: "const REDACTED"},
		},
	}
	got, err := New(rules).Convert([]byte(accountsXML))
	require.NoError(t, err)

	assert.Equal(t, []string{"REDACTED", "REDACTED"}, elementTexts(t, got, "//Name"))
	// Unmatched elements stay untouched.
	assert.Contains(t, string(got), "FI2112345600000785")
}

func TestConvertRegeneratesIBANs(t *testing.T) {
	rules := &stovokor.Rules{
		XPaths: map[string]stovokor.SubstitutionDef{
			"//AccountNumber": {GenValue: "iban_regenerate #text"},
		},
	}
	got, err := New(rules).Convert([]byte(accountsXML))
	require.NoError(t, err)

	for _, text := range elementTexts(t, got, "//AccountNumber") {
		assert.True(t, strings.HasPrefix(text, "FI"), "got %s", text)
		assert.Len(t, text, 18)
		assert.NotEqual(t, "FI2112345600000785", text)
	}
}

func TestConvertLenParam(t *testing.T) {
	rules := &stovokor.Rules{
		XPaths: map[string]stovokor.SubstitutionDef{
			"//Name": {GenValue: "num -l #len"},
		},
	}
	got, err := New(rules).Convert([]byte(accountsXML))
	require.NoError(t, err)

	texts := elementTexts(t, got, "//Name")
	assert.Len(t, texts[0], len("Very Secret Name"))
	assert.Regexp(t, `^\d+$`, texts[0])
}

func TestConvertCachedPolicy(t *testing.T) {
	rules := &stovokor.Rules{
		XPaths: map[string]stovokor.SubstitutionDef{
			"//AccountNumber": {GenValue: "uuid", Policy: stovokor.Cached},
		},
	}
	got, err := New(rules).Convert([]byte(accountsXML))
	require.NoError(t, err)

	texts := elementTexts(t, got, "//AccountNumber")
	require.Len(t, texts, 2)
	assert.Equal(t, texts[0], texts[1], "equal inputs must map to equal outputs under the cached policy")
}

func TestConvertComments(t *testing.T) {
	rules := &stovokor.Rules{
		Comments: true,
		XPaths: map[string]stovokor.SubstitutionDef{
			"//Name":          {GenValue: "const REDACTED"},
			"//AccountNumber": {GenValue: "const #text"},
		},
	}
	got, err := New(rules).Convert([]byte(accountsXML))
	require.NoError(t, err)

	assert.Contains(t, string(got), "<!--Obfuscated-->")
	assert.Contains(t, string(got), "<!--Cannot obfuscate, leaving unmodified. See logs.-->")
}

func TestConvertKeepsDeclaration(t *testing.T) {
	rules := &stovokor.Rules{XPaths: map[string]stovokor.SubstitutionDef{}}
	got, err := New(rules).Convert([]byte(accountsXML))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "<?xml"), "got %s", got)
}

func TestConvertBadXPath(t *testing.T) {
	rules := &stovokor.Rules{
		XPaths: map[string]stovokor.SubstitutionDef{
			"//[": {GenValue: "const x"},
		},
	}
	_, err := New(rules).Convert([]byte(accountsXML))
	assert.Error(t, err)
}

func TestSplitXMLs(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?><A/><?xml version="1.0"?><B/>`)
	documents := splitXMLs(raw)
	require.Len(t, documents, 2)
	assert.Contains(t, string(documents[0]), "<A/>")
	assert.Contains(t, string(documents[1]), "<B/>")
}

func TestSplitXMLsEmpty(t *testing.T) {
	documents := splitXMLs(nil)
	require.Len(t, documents, 1)
	assert.Empty(t, documents[0])
}

func TestConvertFileEmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.xml")
	output := filepath.Join(dir, "empty.out.xml")
	require.NoError(t, os.WriteFile(input, nil, 0o644))

	rules := &stovokor.Rules{
		MultipleXMLs: true,
		XPaths: map[string]stovokor.SubstitutionDef{
			"//Name": {GenValue: "const REDACTED"},
		},
	}
	require.NoError(t, New(rules).ConvertFile(input, output))
}

func TestConvertFileMultipleXMLs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "multi.xml")
	output := filepath.Join(dir, "multi.out.xml")
	content := `<?xml version="1.0" encoding="utf-8"?><Doc><Name>first</Name></Doc>` +
		`<?xml version="1.0" encoding="utf-8"?><Doc><Name>second</Name></Doc>`
	require.NoError(t, os.WriteFile(input, []byte(content), 0o644))

	rules := &stovokor.Rules{
		MultipleXMLs: true,
		XPaths: map[string]stovokor.SubstitutionDef{
			"//Name": {GenValue: "const REDACTED"},
		},
	}
	require.NoError(t, New(rules).ConvertFile(input, output))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(got), "<?xml"))
	assert.Equal(t, 2, strings.Count(string(got), "REDACTED"))
}

func TestConvertPathSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xml")
	require.NoError(t, os.WriteFile(input, []byte(accountsXML), 0o644))

	rules := &stovokor.Rules{
		XPaths: map[string]stovokor.SubstitutionDef{
			"//Name": {GenValue: "const REDACTED"},
		},
	}
	require.NoError(t, New(rules).ConvertPath(input, ""))

	got, err := os.ReadFile(input + ".out.xml")
	require.NoError(t, err)
	assert.Contains(t, string(got), "REDACTED")
}

func TestConvertPathDirectory(t *testing.T) {
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "batch")
	require.NoError(t, os.Mkdir(inputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "a.xml"), []byte(accountsXML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "b.xml"), []byte(accountsXML), 0o644))
	// Leftovers from a previous run are not converted again.
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "a.out.xml"), []byte(accountsXML), 0o644))

	outputDir := filepath.Join(dir, "out")
	rules := &stovokor.Rules{
		XPaths: map[string]stovokor.SubstitutionDef{
			"//Name": {GenValue: "const REDACTED"},
		},
	}
	require.NoError(t, New(rules).ConvertPath(inputDir, outputDir))

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestConvertPathRejectsOutputEqualInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xml")
	require.NoError(t, os.WriteFile(input, []byte(accountsXML), 0o644))

	rules := &stovokor.Rules{XPaths: map[string]stovokor.SubstitutionDef{}}
	assert.Error(t, New(rules).ConvertPath(input, input))
}
