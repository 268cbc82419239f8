package group

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/splitify/splitify/pkg/middleware"
	"github.com/splitify/splitify/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	// Membership
	r.Post("/{id}/members", h.AddMember)
	r.Get("/{id}/members", h.GetMembers)
	r.Delete("/{id}/members/{userId}", h.RemoveMember)

	// Invites
	r.Post("/{id}/invite", h.CreateInvite)
	r.Post("/join", h.Join)

	return r
}

// Create handles POST /groups
// @Summary      Create a new group
// @Description  Create a group; the creator becomes its admin
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group data"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "Group name is required")
		return
	}

	group, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		response.InternalError(w, "Failed to create group")
		return
	}

	response.JSON(w, http.StatusCreated, group.ToResponse())
}

// List handles GET /groups
// @Summary      List my groups
// @Description  Get all groups the authenticated user belongs to
// @Tags         groups
// @Produce      json
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	groups, total, err := h.service.ListByUserID(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list groups")
		return
	}

	items := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		items[i] = g.ToResponse()
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	response.JSONWithMeta(w, http.StatusOK, items, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// GetByID handles GET /groups/{id}
// @Summary      Get group by ID
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.callerAndGroup(w, r)
	if !ok {
		return
	}

	group, err := h.service.GetByID(r.Context(), userID, groupID)
	if err != nil {
		writeGroupError(w, err, "Failed to get group")
		return
	}

	resp := group.ToResponse()
	if members, err := h.service.GetMembers(r.Context(), userID, groupID); err == nil {
		resp.Members = make([]*MemberResponse, len(members))
		for i, m := range members {
			resp.Members[i] = m.ToResponse()
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// Update handles PUT /groups/{id}
// @Summary      Update a group
// @Description  Update group details (admins only)
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body UpdateGroupRequest true "Updated group data"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.callerAndGroup(w, r)
	if !ok {
		return
	}

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	group, err := h.service.Update(r.Context(), userID, groupID, &req)
	if err != nil {
		writeGroupError(w, err, "Failed to update group")
		return
	}

	response.JSON(w, http.StatusOK, group.ToResponse())
}

// Delete handles DELETE /groups/{id}
// @Summary      Delete a group
// @Description  Delete a group and all of its expenses (admins only)
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.callerAndGroup(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, groupID); err != nil {
		writeGroupError(w, err, "Failed to delete group")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Group deleted"})
}

// AddMember handles POST /groups/{id}/members
// @Summary      Add a member to a group
// @Description  Add a user to a group directly (admins only)
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body AddMemberRequest true "Member data"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.callerAndGroup(w, r)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.UserID == 0 {
		response.BadRequest(w, "user_id is required")
		return
	}

	member, err := h.service.AddMember(r.Context(), userID, groupID, &req)
	if err != nil {
		writeGroupError(w, err, "Failed to add member")
		return
	}

	response.JSON(w, http.StatusCreated, member.ToResponse())
}

// GetMembers handles GET /groups/{id}/members
// @Summary      List group members
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/members [get]
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.callerAndGroup(w, r)
	if !ok {
		return
	}

	members, err := h.service.GetMembers(r.Context(), userID, groupID)
	if err != nil {
		writeGroupError(w, err, "Failed to get members")
		return
	}

	items := make([]*MemberResponse, len(members))
	for i, m := range members {
		items[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, items)
}

// RemoveMember handles DELETE /groups/{id}/members/{userId}
// @Summary      Remove a member from a group
// @Description  Remove a user from a group; members can remove themselves, admins can remove others
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/members/{userId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, groupID, ok := h.callerAndGroup(w, r)
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), actorID, groupID, userID); err != nil {
		writeGroupError(w, err, "Failed to remove member")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

// CreateInvite handles POST /groups/{id}/invite
// @Summary      Create an invite token
// @Description  Mint a shareable token that lets another user join the group
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      201 {object} response.APIResponse{data=InviteResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/invite [post]
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.callerAndGroup(w, r)
	if !ok {
		return
	}

	invite, err := h.service.CreateInvite(r.Context(), userID, groupID)
	if err != nil {
		writeGroupError(w, err, "Failed to create invite")
		return
	}

	response.JSON(w, http.StatusCreated, invite.ToResponse())
}

// Join handles POST /groups/join
// @Summary      Join a group via invite token
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body JoinGroupRequest true "Invite token"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Token == "" {
		response.BadRequest(w, "token is required")
		return
	}

	member, err := h.service.Join(r.Context(), userID, req.Token)
	if err != nil {
		writeGroupError(w, err, "Failed to join group")
		return
	}

	response.JSON(w, http.StatusCreated, member.ToResponse())
}

func (h *Handler) callerAndGroup(w http.ResponseWriter, r *http.Request) (userID, groupID int64, ok bool) {
	userID, authed := middleware.GetUserID(r.Context())
	if !authed {
		response.Unauthorized(w, "Authentication required")
		return 0, 0, false
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return 0, 0, false
	}
	return userID, groupID, true
}

func writeGroupError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrMemberNotFound),
		errors.Is(err, ErrInviteNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotGroupAdmin),
		errors.Is(err, ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyMember):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrCannotRemoveSelf):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
