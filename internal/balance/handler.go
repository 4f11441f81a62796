package balance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for balances
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints. Mount it under a route
// whose "id" path parameter is the user id.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Net)
	r.Get("/counterparties", h.Counterparties)
	r.Get("/groups", h.Groups)

	return r
}

// Net handles GET /users/{id}/balance
// @Summary      Get a user's net balance
// @Description  Positive net means the user owes money
// @Tags         balances
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/balance [get]
func (h *Handler) Net(w http.ResponseWriter, r *http.Request) {
	userID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	summary, err := h.service.Net(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, summary.ToResponse())
}

// Counterparties handles GET /users/{id}/balance/counterparties
// @Summary      Break a user's balance down by counterparty
// @Tags         balances
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=CounterpartiesResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/balance/counterparties [get]
func (h *Handler) Counterparties(w http.ResponseWriter, r *http.Request) {
	userID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	report, err := h.service.Counterparties(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, report.ToResponse())
}

// Groups handles GET /users/{id}/balance/groups
// @Summary      Break a user's shares down by group
// @Tags         balances
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=GroupsResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/balance/groups [get]
func (h *Handler) Groups(w http.ResponseWriter, r *http.Request) {
	userID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	report, err := h.service.Groups(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, report.ToResponse())
}
