package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

const mimePDF = "application/pdf"

// ResumeHandler serves the authenticated resume endpoints. Ownership is
// enforced by the service against the stored owner.
type ResumeHandler struct {
	service ports.ResumeService
}

func NewResumeHandler(service ports.ResumeService) *ResumeHandler {
	return &ResumeHandler{service: service}
}

// ListAll returns every resume.
//
// @Summary      List all resumes
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Resume
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/resumes [get]
func (h *ResumeHandler) ListAll(c echo.Context) error {
	list, err := h.service.ListAll(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// ListByOwner returns the resumes of one user.
//
// @Summary      List a user's resumes
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200     {array}   domain.Resume
// @Failure      403     {object}  errorResponse
// @Router       /api/resumes/user/{userId} [get]
func (h *ResumeHandler) ListByOwner(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	list, err := h.service.ListByOwner(c.Request().Context(), principal(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one resume.
//
// @Summary      Get resume
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  domain.Resume
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/resumes/{id} [get]
func (h *ResumeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.service.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Create stores a new resume for the caller.
//
// @Summary      Create resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resumeRequest  true  "Resume"
// @Success      201   {object}  domain.Resume
// @Failure      400   {object}  errorResponse
// @Router       /api/resumes [post]
func (h *ResumeHandler) Create(c echo.Context) error {
	var req resumeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.service.Create(c.Request().Context(), principal(c), toResumeInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// Update replaces a resume's content.
//
// @Summary      Update resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Resume ID"
// @Param        body  body      resumeRequest  true  "Resume"
// @Success      200   {object}  domain.Resume
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/resumes/{id} [put]
func (h *ResumeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req resumeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.service.Update(c.Request().Context(), principal(c), id, toResumeInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Delete removes a resume.
//
// @Summary      Delete resume
// @Tags         resumes
// @Security     BearerAuth
// @Param        id   path  int  true  "Resume ID"
// @Success      204  "No Content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/resumes/{id} [delete]
func (h *ResumeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), principal(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Share makes a resume public and returns it with its link.
//
// @Summary      Share resume
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  domain.Resume
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/resumes/{id}/share [post]
func (h *ResumeHandler) Share(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.service.Publish(c.Request().Context(), principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Unshare makes a resume private. The link is kept for a later share.
//
// @Summary      Unshare resume
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  domain.Resume
// @Router       /api/resumes/{id}/unshare [post]
func (h *ResumeHandler) Unshare(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.service.Unpublish(c.Request().Context(), principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// PDF renders a resume as a PDF attachment.
//
// @Summary      Download resume PDF
// @Tags         resumes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  int  true  "Resume ID"
// @Success      200  {file}  file
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/resumes/{id}/pdf [get]
func (h *ResumeHandler) PDF(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	r, err := h.service.RenderPDF(c.Request().Context(), principal(c), id, &buf)
	if err != nil {
		return err
	}
	return sendPDF(c, r, &buf)
}

// sendPDF writes a rendered document. Rendering goes to a buffer first so a
// failure still reaches the error handler as JSON.
func sendPDF(c echo.Context, r *domain.Resume, buf *bytes.Buffer) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=resume-%d.pdf", r.ID))
	return c.Blob(http.StatusOK, mimePDF, buf.Bytes())
}
