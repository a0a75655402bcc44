package controllers

import (
	"net/http"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"
)

// ContentController serves static site content.
type ContentController struct {
	Service domain.ContentService
}

func NewContentController(svc domain.ContentService) *ContentController {
	return &ContentController{Service: svc}
}

// FAQ godoc
// @Summary Get FAQ entries
// @Tags content
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the FAQ entries"
// @Router /content/faq [get]
func (c *ContentController) FAQ(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.FAQ())
}

// Footer godoc
// @Summary Get footer link groups
// @Tags content
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the footer groups"
// @Router /content/footer [get]
func (c *ContentController) Footer(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Footer())
}
