package certificate

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"clubconn/internal/domain"
)

//go:embed templates/certificate.html
var templateFS embed.FS

// ContentType is the media type of rendered certificates.
const ContentType = "text/html; charset=utf-8"

type htmlRenderer struct {
	tmpl    *template.Template
	baseURL string
}

type view struct {
	*domain.CertificateDetails
	VerifyURL string
}

// NewHTMLRenderer returns a CertificateRenderer that produces a standalone HTML page the client
// converts to an image or PDF. baseURL is the public site used in the verification footer.
func NewHTMLRenderer(baseURL string) (domain.CertificateRenderer, error) {
	tmpl, err := template.New("certificate.html").
		Funcs(template.FuncMap{"date": func(t time.Time) string { return t.Format("January 2, 2006") }}).
		ParseFS(templateFS, "templates/certificate.html")
	if err != nil {
		return nil, fmt.Errorf("parse certificate template: %w", err)
	}
	return &htmlRenderer{tmpl: tmpl, baseURL: baseURL}, nil
}

func (r *htmlRenderer) Render(cert *domain.CertificateDetails) (string, []byte, error) {
	if cert == nil || cert.Certificate == nil {
		return "", nil, fmt.Errorf("render certificate: %w", domain.ErrInvalidInput)
	}
	var buf bytes.Buffer
	v := view{CertificateDetails: cert, VerifyURL: r.baseURL + "/certificates/verify"}
	if err := r.tmpl.Execute(&buf, v); err != nil {
		return "", nil, fmt.Errorf("render certificate: %w", err)
	}
	return ContentType, buf.Bytes(), nil
}
