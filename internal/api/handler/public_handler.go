package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/core/ports"
)

// PublicHandler serves shared resumes to anonymous callers.
type PublicHandler struct {
	service ports.ResumeService
}

func NewPublicHandler(service ports.ResumeService) *PublicHandler {
	return &PublicHandler{service: service}
}

// List returns every public resume.
//
// @Summary      List public resumes
// @Tags         public
// @Produce      json
// @Success      200  {array}  domain.Resume
// @Router       /api/public/resumes [get]
func (h *PublicHandler) List(c echo.Context) error {
	list, err := h.service.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns a public resume by its link.
//
// @Summary      Get public resume
// @Tags         public
// @Produce      json
// @Param        link  path      string  true  "Public link"
// @Success      200   {object}  domain.Resume
// @Failure      404   {object}  errorResponse
// @Router       /api/public/resumes/{link} [get]
func (h *PublicHandler) Get(c echo.Context) error {
	r, err := h.service.GetPublic(c.Request().Context(), c.Param("link"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// PDF renders a public resume.
//
// @Summary      Download public resume PDF
// @Tags         public
// @Produce      application/pdf
// @Param        link  path  string  true  "Public link"
// @Success      200   {file}  file
// @Failure      404   {object}  errorResponse
// @Router       /api/public/resumes/{link}/pdf [get]
func (h *PublicHandler) PDF(c echo.Context) error {
	var buf bytes.Buffer
	r, err := h.service.RenderPublicPDF(c.Request().Context(), c.Param("link"), &buf)
	if err != nil {
		return err
	}
	return sendPDF(c, r, &buf)
}
