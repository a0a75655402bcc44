// Package content loads the static site content shipped with the binary.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"clubconn/internal/domain"
)

//go:embed content.yaml
var embedded []byte

// Document is the YAML shape of the static content file.
type Document struct {
	FAQ    []domain.FAQEntry    `yaml:"faq"`
	Footer []domain.FooterGroup `yaml:"footer"`
}

// Load parses the embedded content document.
func Load() (*Document, error) {
	return Parse(embedded)
}

// Parse decodes a content document and checks every FAQ entry is complete.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	for i, e := range doc.FAQ {
		if e.Question == "" || e.Answer == "" {
			return nil, fmt.Errorf("parse content: faq entry %d is missing a question or answer", i)
		}
	}
	return &doc, nil
}
