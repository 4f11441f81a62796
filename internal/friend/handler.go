package friend

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for friendships
type Handler struct {
	service *Service
}

// NewHandler creates a new friend handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for friend endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Add)

	return r
}

// Add handles POST /friends
// @Summary      Add a friend
// @Description  The actor lists friend_id as a friend. Friendships are directed.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Param        request body AddFriendRequest true "Friend to add"
// @Success      201 {object} response.APIResponse{data=FriendResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /friends [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	actorID, err := request.ActorID(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req AddFriendRequest
	if err := request.Decode(w, r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	f, err := h.service.Add(r.Context(), actorID, req.FriendID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, f.ToResponse())
}

// ListForUser handles GET /users/{id}/friends
// @Summary      List a user's friends
// @Tags         friends
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]FriendResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/friends [get]
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	friends, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	out := make([]*FriendResponse, len(friends))
	for i, f := range friends {
		out[i] = f.ToResponse()
	}
	response.List(w, out, len(out))
}
