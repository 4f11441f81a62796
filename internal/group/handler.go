package group

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/request"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for group endpoints. nested registers further
// routes under /{id}, where the path parameter "id" is the group id.
func (h *Handler) Routes(nested func(r chi.Router)) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)

		// Member management
		r.Post("/members", h.AddMember)
		r.Get("/members", h.GetMembers)

		if nested != nil {
			nested(r)
		}
	})

	return r
}

func membersResponse(members []*GroupMember) []*MemberResponse {
	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}
	return out
}

// Create handles POST /groups
// @Summary      Create a new group
// @Description  Create a new group with the actor as its first member
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, err := request.ActorID(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req CreateGroupRequest
	if err := request.Decode(w, r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	g, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, g.ToResponse())
}

// GetByID handles GET /groups/{id}
// @Summary      Get group by ID
// @Description  Get a group together with its members
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	g, members, err := h.service.GetByIDWithMembers(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	resp := g.ToResponse()
	resp.Members = membersResponse(members)
	response.JSON(w, http.StatusOK, resp)
}

// AddMember handles POST /groups/{id}/members
// @Summary      Add a member to a group
// @Description  The actor must be the group's creator or an existing member
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	actorID, err := request.ActorID(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req AddMemberRequest
	if err := request.Decode(w, r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.service.AddMember(r.Context(), actorID, groupID, req.UserID)
	if err != nil {
		response.FromError(w, err)
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
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/members [get]
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	members, err := h.service.ListMembers(r.Context(), groupID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	out := membersResponse(members)
	response.List(w, out, len(out))
}

// ListForUser handles GET /users/{id}/groups
// @Summary      List a user's groups
// @Tags         groups
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/groups [get]
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	groups, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	out := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = g.ToResponse()
	}
	response.List(w, out, len(out))
}
