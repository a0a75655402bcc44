package services

import (
	"testing"

	"clubconn/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestContentService(t *testing.T) {
	svc := NewContentService(nil, nil)
	assert.NotNil(t, svc.FAQ())
	assert.Empty(t, svc.Footer())

	faq := []domain.FAQEntry{{Question: "Is it free?", Answer: "Yes."}}
	footer := []domain.FooterGroup{{Title: "Company", Links: []domain.FooterLink{{Label: "About", URL: "/about"}}}}
	svc = NewContentService(faq, footer)
	assert.Equal(t, faq, svc.FAQ())
	assert.Equal(t, "About", svc.Footer()[0].Links[0].Label)
}
