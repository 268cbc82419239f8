package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/splitify/splitify/internal/currency"
	"github.com/splitify/splitify/internal/expense/split"
	"github.com/splitify/splitify/pkg/middleware"
	"github.com/splitify/splitify/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	// Group-based listing
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Validates the draft, computes payments and shares server-side (EQUAL, UNEQUAL, PERCENTAGE or SHARES) and persists the breakdown atomically
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense draft"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Create(r.Context(), req.ToDraft(creatorID))
	if err != nil {
		writeCreateError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result.ToResponse())
}

// writeCreateError maps validation and engine errors onto the response
// envelope. A conservation failure is an internal bug and is the only one
// surfaced as a 500.
func writeCreateError(w http.ResponseWriter, err error) {
	var invariantErr *InvariantError
	if errors.As(err, &invariantErr) {
		response.InternalError(w, "Failed to create expense")
		return
	}

	var mismatch *SumMismatchError
	if errors.As(err, &mismatch) {
		remaining := mismatch.Expected.Sub(mismatch.Actual)
		response.UnprocessableEntity(w, "SHARE_SUM_MISMATCH",
			"Shares total "+mismatch.Actual.String()+", expected "+mismatch.Expected.String()+
				" ("+remaining.String()+" remaining)")
		return
	}

	switch {
	case errors.Is(err, ErrCreatorNotMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidPolicy),
		errors.Is(err, currency.ErrUnsupportedCurrency),
		errors.Is(err, currency.ErrTooPrecise),
		errors.Is(err, ErrEmptyPayerSet),
		errors.Is(err, ErrEmptyBeneficiarySet),
		errors.Is(err, ErrDuplicatePayer),
		errors.Is(err, ErrDuplicateBeneficiary),
		errors.Is(err, ErrUnknownPayer),
		errors.Is(err, ErrUnknownBeneficiary),
		errors.Is(err, ErrMissingShareInput),
		errors.Is(err, split.ErrNegativeShare),
		errors.Is(err, split.ErrNonPositiveWeight),
		errors.Is(err, split.ErrUnknownPolicy):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Failed to create expense")
	}
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Description  Get an expense with its full payment and share breakdown
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses by group
// @Description  Get all expenses for a group with pagination
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	expenses, total, err := h.service.ListByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	items := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		items[i] = e.ToResponse()
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

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Delete an expense (creator only); its payments and shares are removed with it
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotCreator) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete expense")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}
