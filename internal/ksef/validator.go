package ksef

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/beevik/etree"

	"github.com/fakturnia/ksef-processor/internal/model"
)

// Validator checks documents against the packaged XSD resources. Parsed
// schemas are cached per variant; the cache is safe for concurrent use.
type Validator struct {
	schemaDir string

	mu    sync.RWMutex
	cache map[model.SchemaVariant]*schema
}

// NewValidator creates a validator reading XSD files from schemaDir
func NewValidator(schemaDir string) *Validator {
	return &Validator{
		schemaDir: schemaDir,
		cache:     make(map[model.SchemaVariant]*schema),
	}
}

// SchemaFileName returns the XSD resource name for a variant
func SchemaFileName(variant model.SchemaVariant) string {
	return fmt.Sprintf("schemat_FA(%s)_v1-0E.xsd", variant.Number())
}

// Validate checks the document against the variant's schema and returns
// every violation found, each tagged with its line in the input. A nil
// slice means the document conforms. The returned error reports
// operational failures only (missing schema resource), never document
// problems.
func (v *Validator) Validate(xmlText string, variant model.SchemaVariant) ([]model.Violation, error) {
	s, err := v.schemaFor(variant)
	if err != nil {
		return nil, err
	}

	root, violations := parseDocument(xmlText)
	if len(violations) > 0 {
		return violations, nil
	}
	if root == nil {
		return []model.Violation{{Line: 1, Message: "document has no root element"}}, nil
	}

	return s.check(root), nil
}

// ValidateFile reads and validates an XML file on disk
func (v *Validator) ValidateFile(path string, variant model.SchemaVariant) ([]model.Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &model.FileNotFoundError{Path: path}
		}
		return nil, err
	}
	return v.Validate(string(data), variant)
}

func (v *Validator) schemaFor(variant model.SchemaVariant) (*schema, error) {
	v.mu.RLock()
	s, ok := v.cache[variant]
	v.mu.RUnlock()
	if ok {
		return s, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.cache[variant]; ok {
		return s, nil
	}

	path := filepath.Join(v.schemaDir, SchemaFileName(variant))
	s, err := loadSchema(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &model.SchemaNotFoundError{Variant: variant, Path: path}
		}
		return nil, fmt.Errorf("failed to load schema %s: %w", path, err)
	}
	v.cache[variant] = s
	return s, nil
}

// childSpec is one entry of an element's ordered content model
type childSpec struct {
	name     string
	required bool
}

// schema is the subset of XSD we enforce: the root element name and the
// ordered child sequence of every complex element.
type schema struct {
	root     string
	elements map[string][]childSpec
}

func loadSchema(path string) (*schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("malformed XSD: %w", err)
	}
	xsdRoot := doc.Root()
	if xsdRoot == nil || xsdRoot.Tag != "schema" {
		return nil, fmt.Errorf("not an XSD document")
	}

	s := &schema{elements: make(map[string][]childSpec)}
	for _, el := range xsdRoot.ChildElements() {
		if el.Tag == "element" {
			s.root = el.SelectAttrValue("name", "")
			s.collect(el)
			break
		}
	}
	if s.root == "" {
		return nil, fmt.Errorf("XSD declares no top-level element")
	}
	return s, nil
}

// collect records the ordered child sequence of an xs:element that has
// an inline complex type, then recurses into each child declaration.
func (s *schema) collect(el *etree.Element) {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return
	}

	seq := findSequence(el)
	if seq == nil {
		return
	}

	var children []childSpec
	for _, ch := range seq.ChildElements() {
		if ch.Tag != "element" {
			continue
		}
		children = append(children, childSpec{
			name:     ch.SelectAttrValue("name", ""),
			required: ch.SelectAttrValue("minOccurs", "1") != "0",
		})
		s.collect(ch)
	}
	s.elements[name] = children
}

func findSequence(el *etree.Element) *etree.Element {
	for _, ct := range el.ChildElements() {
		if ct.Tag != "complexType" {
			continue
		}
		for _, inner := range ct.ChildElements() {
			switch inner.Tag {
			case "sequence":
				return inner
			case "simpleContent":
				return nil
			}
		}
	}
	return nil
}

// check walks the document against the schema and collects violations
func (s *schema) check(root *node) []model.Violation {
	var violations []model.Violation

	if root.name != s.root {
		violations = append(violations, model.Violation{
			Line:    root.line,
			Message: fmt.Sprintf("unexpected root element '%s', expected '%s'", root.name, s.root),
		})
		return violations
	}
	if root.namespace != strings.TrimSuffix(Namespace, "/") && root.namespace != Namespace {
		violations = append(violations, model.Violation{
			Line:    root.line,
			Message: fmt.Sprintf("root element namespace '%s' does not match '%s'", root.namespace, Namespace),
		})
	}

	s.checkElement(root, &violations)
	return violations
}

func (s *schema) checkElement(n *node, violations *[]model.Violation) {
	spec, known := s.elements[n.name]
	if !known {
		return
	}

	allowed := make(map[string]int, len(spec))
	for i, c := range spec {
		allowed[c.name] = i
	}

	// Children must appear in declaration order. Unknown names and
	// order regressions are reported at the offending child's line,
	// missing required children at the parent's line.
	lastIndex := -1
	seen := make(map[string]bool, len(spec))
	for _, ch := range n.children {
		idx, ok := allowed[ch.name]
		if !ok {
			*violations = append(*violations, model.Violation{
				Line:    ch.line,
				Message: fmt.Sprintf("unexpected element '%s' inside '%s'", ch.name, n.name),
			})
			continue
		}
		if idx < lastIndex {
			*violations = append(*violations, model.Violation{
				Line:    ch.line,
				Message: fmt.Sprintf("element '%s' out of order inside '%s'", ch.name, n.name),
			})
		} else {
			lastIndex = idx
		}
		seen[ch.name] = true
		s.checkElement(ch, violations)
	}

	for _, c := range spec {
		if c.required && !seen[c.name] {
			*violations = append(*violations, model.Violation{
				Line:    n.line,
				Message: fmt.Sprintf("missing required element '%s' inside '%s'", c.name, n.name),
			})
		}
	}
}

// node is a parsed element with the line it starts on
type node struct {
	name      string
	namespace string
	line      int
	children  []*node
}

// parseDocument builds a line-annotated element tree. Well-formedness
// errors come back as violations so callers report them uniformly with
// schema failures.
func parseDocument(xmlText string) (*node, []model.Violation) {
	lineAt := lineIndex(xmlText)
	dec := xml.NewDecoder(strings.NewReader(xmlText))

	var root *node
	var stack []*node

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := lineAt(offset)
			var syntax *xml.SyntaxError
			if errors.As(err, &syntax) {
				line = syntax.Line
			}
			return nil, []model.Violation{{Line: line, Message: fmt.Sprintf("malformed XML: %v", err)}}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{
				name:      t.Name.Local,
				namespace: t.Name.Space,
				line:      lineAt(offset),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, []model.Violation{{Line: n.line, Message: "multiple root elements"}}
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	return root, nil
}

// lineIndex returns a function mapping byte offsets to 1-based lines
func lineIndex(text string) func(int64) int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return func(offset int64) int {
		return sort.Search(len(starts), func(i int) bool {
			return starts[i] > int(offset)
		})
	}
}
