// Package xmlconv rewrites XML files by substituting the text of elements
// matched by configured XPath expressions with generated values.
package xmlconv

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"

	"stovokor"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`

// Converter applies one rules set to files and directories.
type Converter struct {
	rules  *stovokor.Rules
	logger *slog.Logger
}

func New(rules *stovokor.Rules) *Converter {
	return &Converter{
		rules:  rules,
		logger: slog.Default().With("component", "xmlconv"),
	}
}

// ConvertPath converts a file, or every file of a directory. For a directory
// without an explicit output the results go to "<input>.out"; for a single
// file to "<input>.out.xml". Files already ending in .out.xml are skipped so
// reruns do not converge on their own output.
func (c *Converter) ConvertPath(input, output string) error {
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input %s: %w", input, err)
	}
	if !info.IsDir() {
		if output == "" {
			output = input + ".out.xml"
		}
		return c.convertSingleFile(input, output)
	}

	outputDir := output
	if outputDir == "" {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		outputDir = abs + ".out"
	} else if stat, err := os.Stat(outputDir); err == nil && !stat.IsDir() {
		return fmt.Errorf("output cannot be a file when input is a directory")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return fmt.Errorf("reading input directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".out.xml") {
			continue
		}
		files = append(files, entry.Name())
	}
	c.logger.Info("converting directory", "input", input, "output", outputDir, "files", len(files))
	for i, name := range files {
		if err := c.convertSingleFile(filepath.Join(input, name), filepath.Join(outputDir, name)); err != nil {
			return err
		}
		c.logger.Info("converted file", "done", i+1, "total", len(files))
	}
	return nil
}

func (c *Converter) convertSingleFile(input, output string) error {
	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	absOut, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	if absIn == absOut {
		return fmt.Errorf("output cannot be equal to input: %s", input)
	}
	if stat, err := os.Stat(output); err == nil && stat.IsDir() {
		return fmt.Errorf("output %s is an existing directory", output)
	}
	return c.ConvertFile(input, output)
}

// ConvertFile converts a single input file into the output file. With the
// MultipleXMLs rule the input may hold several XML documents, each is
// converted independently and the results concatenated.
func (c *Converter) ConvertFile(input, output string) error {
	c.logger.Info("converting file", "input", input)
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	documents := [][]byte{raw}
	if c.rules.MultipleXMLs {
		documents = splitXMLs(raw)
	}

	var out bytes.Buffer
	for i, doc := range documents {
		if len(documents) > 1 {
			c.logger.Info("converting document", "index", i+1, "total", len(documents), "input", input)
		}
		converted, err := c.Convert(doc)
		if err != nil {
			return fmt.Errorf("converting %s: %w", input, err)
		}
		out.Write(converted)
	}

	if err := os.WriteFile(output, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	c.logger.Info("converted file", "input", input, "output", output)
	return nil
}

// Convert applies the rules to one XML document and returns the serialized
// result.
func (c *Converter) Convert(doc []byte) ([]byte, error) {
	root, err := xmlquery.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	// Iterate the xpaths in a stable order so runs are reproducible.
	xpaths := make([]string, 0, len(c.rules.XPaths))
	for xpath := range c.rules.XPaths {
		xpaths = append(xpaths, xpath)
	}
	sort.Strings(xpaths)

	for _, xpath := range xpaths {
		def := c.rules.XPaths[xpath]
		elements, err := xmlquery.QueryAll(root, xpath)
		if err != nil {
			return nil, fmt.Errorf("evaluating xpath %q: %w", xpath, err)
		}
		if len(elements) == 0 {
			c.logger.Debug("no elements found, ignoring", "xpath", xpath)
			continue
		}
		c.logger.Debug("replacing elements", "xpath", xpath, "count", len(elements), "expression", def.GenValue)

		substitutor := newSubstitutor(def)
		for _, element := range elements {
			previous := element.InnerText()
			value, err := substitutor.next(element)
			if err != nil {
				return nil, fmt.Errorf("xpath %q: %w", xpath, err)
			}
			setText(element, value)
			if c.rules.Comments {
				// Generators may return the value unchanged, e.g. when an
				// invalid IBAN is passed to iban_regenerate. That is not an
				// error, invalid values need no obfuscation, but worth
				// flagging in the output.
				if previous == value {
					insertCommentBefore(element, "Cannot obfuscate, leaving unmodified. See logs.")
				} else {
					insertCommentBefore(element, "Obfuscated")
				}
			}
		}
	}

	return serialize(root), nil
}

// splitXMLs splits a file into documents on every <?xml declaration.
func splitXMLs(raw []byte) [][]byte {
	if len(raw) == 0 {
		return [][]byte{raw}
	}
	var documents [][]byte
	start := 0
	for {
		next := bytes.Index(raw[start+1:], []byte("<?xml"))
		if next < 0 {
			documents = append(documents, raw[start:])
			return documents
		}
		next += start + 1
		documents = append(documents, raw[start:next])
		start = next
	}
}

// serialize renders the document, making sure it leads with an XML
// declaration like the input files do.
func serialize(root *xmlquery.Node) []byte {
	var out bytes.Buffer
	declared := false
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.DeclarationNode {
			declared = true
		}
		out.WriteString(child.OutputXML(true))
	}
	if !declared {
		return append([]byte(xmlDeclaration), out.Bytes()...)
	}
	return out.Bytes()
}

// setText replaces the text content of an element.
func setText(element *xmlquery.Node, value string) {
	for child := element.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.TextNode {
			child.Data = value
			return
		}
	}
	xmlquery.AddChild(element, &xmlquery.Node{Type: xmlquery.TextNode, Data: value})
}

func insertCommentBefore(element *xmlquery.Node, text string) {
	comment := &xmlquery.Node{Type: xmlquery.CommentNode, Data: text}
	comment.Parent = element.Parent
	comment.NextSibling = element
	comment.PrevSibling = element.PrevSibling
	if element.PrevSibling != nil {
		element.PrevSibling.NextSibling = comment
	} else if element.Parent != nil {
		element.Parent.FirstChild = comment
	}
	element.PrevSibling = comment
}
