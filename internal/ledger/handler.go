package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/splitify/splitify/pkg/response"
)

// BalanceResponse is one member's net position. Amounts are in minor units
// of the group's currency: positive means owed money, negative means owes.
type BalanceResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
}

// TransferResponse is one suggested repayment.
type TransferResponse struct {
	FromID       int64  `json:"from_id"`
	FromUsername string `json:"from_username"`
	ToID         int64  `json:"to_id"`
	ToUsername   string `json:"to_username"`
	Amount       int64  `json:"amount"`
}

// Handler handles HTTP requests for balance views
type Handler struct {
	service *Service
}

// NewHandler creates a new ledger handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.GroupBalances)
	r.Get("/group/{groupId}/settlements", h.GroupSettlements)

	return r
}

// GroupBalances handles GET /balances/group/{groupId}
// @Summary      Group balances
// @Description  Recompute every member's net balance from the group's full expense history
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GroupBalances(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balances")
		return
	}

	items := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = BalanceResponse{UserID: b.UserID, Username: b.Username, Amount: b.Amount}
	}
	response.JSON(w, http.StatusOK, items)
}

// GroupSettlements handles GET /balances/group/{groupId}/settlements
// @Summary      Suggested settlements
// @Description  Derive the repayments that would settle the group, pairing the largest debtor with the largest creditor
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]TransferResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId}/settlements [get]
func (h *Handler) GroupSettlements(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	transfers, names, err := h.service.GroupSettlements(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute settlements")
		return
	}

	items := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		items[i] = TransferResponse{
			FromID:       t.FromID,
			FromUsername: names[t.FromID],
			ToID:         t.ToID,
			ToUsername:   names[t.ToID],
			Amount:       t.Amount,
		}
	}
	response.JSON(w, http.StatusOK, items)
}
