package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// AuditHandler exposes the recorded administrative audit trail.
type AuditHandler struct {
	audit ports.AuditService
}

func NewAuditHandler(audit ports.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListRecent handles GET /admin/audit — most recent audit events first.
//
// @Summary      List recent audit events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum events to return"
// @Success      200    {object}  envelope
// @Router       /admin/audit [get]
func (h *AuditHandler) ListRecent(c echo.Context) error {
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	events, err := h.audit.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", events)
}
