package activity

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/splitify/splitify/pkg/response"
)

// Handler handles HTTP requests for the activity feed
type Handler struct {
	service *Service
}

// NewHandler creates a new activity handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for activity endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// ListByGroup handles GET /activity/group/{groupId}
// @Summary      Group activity feed
// @Description  Get a group's activity log, newest first
// @Tags         activity
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]ActivityResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /activity/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	activities, total, err := h.service.ListByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list activity")
		return
	}

	items := make([]*ActivityResponse, len(activities))
	for i, a := range activities {
		items[i] = a.ToResponse()
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
