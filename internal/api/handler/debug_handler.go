package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/core/ports"
)

// DebugHandler exposes what the server believes about the caller. Routes are
// only registered when debug routes are enabled.
type DebugHandler struct {
	resumes ports.ResumeService
}

func NewDebugHandler(resumes ports.ResumeService) *DebugHandler {
	return &DebugHandler{resumes: resumes}
}

// AuthStatus reports the resolved principal.
//
// @Summary      Authentication status
// @Tags         debug
// @Produce      json
// @Success      200  {object}  authStatusResponse
// @Router       /api/debug/auth-status [get]
func (h *DebugHandler) AuthStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, toAuthStatus(principal(c)))
}

// CheckPermissions reports the access verdict for one resume.
//
// @Summary      Check resume permissions
// @Tags         debug
// @Produce      json
// @Param        resumeId  path      int  true  "Resume ID"
// @Success      200       {object}  permissionResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/debug/check-permissions/{resumeId} [get]
func (h *DebugHandler) CheckPermissions(c echo.Context) error {
	id, err := pathID(c, "resumeId")
	if err != nil {
		return err
	}
	r, report, err := h.resumes.CheckAccess(c.Request().Context(), principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissionResponse{
		ResumeID: r.ID,
		OwnerID:  r.UserID,
		IsPublic: r.Public,
		CanRead:  report.CanRead,
		CanWrite: report.CanWrite,
		Reason:   report.Reason,
	})
}
