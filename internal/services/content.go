package services

import "clubconn/internal/domain"

type contentService struct {
	faq    []domain.FAQEntry
	footer []domain.FooterGroup
}

// NewContentService serves the given static content.
func NewContentService(faq []domain.FAQEntry, footer []domain.FooterGroup) domain.ContentService {
	if faq == nil {
		faq = []domain.FAQEntry{}
	}
	if footer == nil {
		footer = []domain.FooterGroup{}
	}
	return &contentService{faq: faq, footer: footer}
}

func (s *contentService) FAQ() []domain.FAQEntry { return s.faq }

func (s *contentService) Footer() []domain.FooterGroup { return s.footer }
