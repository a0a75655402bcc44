package domain

// FAQEntry is a single question on the FAQ page.
// swagger:model FAQEntry
type FAQEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// FooterLink is a labelled link in the site footer.
type FooterLink struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// FooterGroup is a titled column of footer links.
// swagger:model FooterGroup
type FooterGroup struct {
	Title string       `json:"title" yaml:"title"`
	Links []FooterLink `json:"links" yaml:"links"`
}

// ContentService serves static site content.
type ContentService interface {
	FAQ() []FAQEntry
	Footer() []FooterGroup
}
