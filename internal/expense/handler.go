package expense

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
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

	return r
}

func listResponse(w http.ResponseWriter, expenses []*Expense) {
	out := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToResponse()
	}
	response.List(w, out, len(out))
}

// Create handles POST /expenses
// @Summary      Create an expense
// @Description  Split an amount evenly between the actor and either named friends or every member of a group
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, err := request.ActorID(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req CreateExpenseRequest
	if err := request.Decode(w, r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result.ToResponse())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Description  Get an expense together with its splits
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// ListByCreator handles GET /users/{id}/expenses
// @Summary      List expenses a user created
// @Tags         expenses
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/expenses [get]
func (h *Handler) ListByCreator(w http.ResponseWriter, r *http.Request) {
	userID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	expenses, err := h.service.ListByCreator(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	listResponse(w, expenses)
}

// ListByParticipant handles GET /users/{id}/shares
// @Summary      List expenses a user has a share in
// @Tags         expenses
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/shares [get]
func (h *Handler) ListByParticipant(w http.ResponseWriter, r *http.Request) {
	userID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	expenses, err := h.service.ListByParticipant(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	listResponse(w, expenses)
}

// ListByGroup handles GET /groups/{id}/expenses
// @Summary      List a group's expenses
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/expenses [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	expenses, err := h.service.ListByGroup(r.Context(), groupID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	listResponse(w, expenses)
}
