package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// GroupHandler serves the peer-link operations and the candidate listings.
type GroupHandler struct {
	groups ports.GroupService
}

func NewGroupHandler(groups ports.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// AddPeer handles POST /admin/addToGroup/:id and
// POST /unit-manager/addToGroup/:id — links the caller and :id on both
// sides.
//
// @Summary      Add an account to the caller's peer group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Peer account id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /admin/addToGroup/{id} [post]
func (h *GroupHandler) AddPeer(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.groups.AddPeer(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Added to group successfully", true)
}

// RemovePeer handles DELETE /admin/group/:id — unlinks both sides.
//
// @Summary      Remove an account from the caller's peer group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Peer account id"
// @Success      200  {object}  envelope
// @Router       /admin/group/{id} [delete]
func (h *GroupHandler) RemovePeer(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.groups.RemovePeer(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Removed from group successfully", nil)
}

// ListPeers handles GET /admin/grouped — the caller's peer set expanded to
// full records.
//
// @Summary      List the caller's peer group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /admin/grouped [get]
func (h *GroupHandler) ListPeers(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	peers, err := h.groups.ListPeers(c.Request().Context(), actor.AccountID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", peers)
}

// ListPeersOf handles GET /users/grouped/:id — another account's peer set
// expanded to full records.
//
// @Summary      List an account's peer group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /users/grouped/{id} [get]
func (h *GroupHandler) ListPeersOf(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	peers, err := h.groups.ListPeers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", peers)
}

// ListAdminCandidates handles GET /admin/allAdmin — non-blocked admins not
// yet linked to the caller.
//
// @Summary      List admin grouping candidates
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /admin/allAdmin [get]
func (h *GroupHandler) ListAdminCandidates(c echo.Context) error {
	return h.listCandidates(c, domain.RoleAdmin)
}

// ListUnitManagerCandidates handles GET /users/getAllUnitManager.
//
// @Summary      List unit-manager grouping candidates
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /users/getAllUnitManager [get]
func (h *GroupHandler) ListUnitManagerCandidates(c echo.Context) error {
	return h.listCandidates(c, domain.RoleUnitManager)
}

func (h *GroupHandler) listCandidates(c echo.Context, role domain.Role) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	candidates, err := h.groups.ListCandidates(c.Request().Context(), actor.AccountID, role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", candidates)
}
