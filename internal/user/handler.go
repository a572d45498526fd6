package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/hamadkw/splitmate/pkg/middleware"
	"github.com/hamadkw/splitmate/pkg/response"
)

// Handler handles HTTP requests for profile and friend operations
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for profile endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetMe)
	r.Patch("/me", h.UpdateMe)
	r.Get("/me/balance", h.GetMyBalance)
	r.Get("/{id}", h.GetByID)

	return r
}

// FriendRoutes returns the router for friend endpoints
func (h *Handler) FriendRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListFriends)
	r.Post("/", h.SendFriendRequest)
	r.Get("/requests", h.ListRequests)
	r.Post("/requests/{id}/accept", h.AcceptRequest)
	r.Post("/requests/{id}/reject", h.RejectRequest)
	r.Post("/requests/{id}/block", h.BlockRequest)

	return r
}

// GetMe handles GET /users/me
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Success      200 {object} response.Envelope{data=ProfileResponse}
// @Router       /users/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), callerID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		log.WithError(err).Error("Failed to get profile")
		response.InternalError(w, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, profile.ToResponse())
}

// GetByID handles GET /users/{id}
// @Summary      Get a profile by user ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} response.Envelope{data=ProfileResponse}
// @Failure      404 {object} response.Envelope
// @Router       /users/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		log.WithError(err).Error("Failed to get profile")
		response.InternalError(w, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, profile.ToResponse())
}

// UpdateMe handles PATCH /users/me
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields to update"
// @Success      200 {object} response.Envelope{data=ProfileResponse}
// @Router       /users/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), callerID, &req)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		log.WithError(err).Error("Failed to update profile")
		response.InternalError(w, "Failed to update profile")
		return
	}

	response.JSON(w, http.StatusOK, profile.ToResponse())
}

// GetMyBalance handles GET /users/me/balance
// @Summary      Get the caller's overall balance across all groups
// @Tags         users
// @Produce      json
// @Success      200 {object} response.Envelope{data=OverallBalance}
// @Router       /users/me/balance [get]
func (h *Handler) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	balance, err := h.service.OverallBalance(r.Context(), callerID)
	if err != nil {
		log.WithError(err).Error("Failed to compute overall balance")
		response.InternalError(w, "Failed to compute overall balance")
		return
	}

	response.JSON(w, http.StatusOK, balance)
}

// SendFriendRequest handles POST /friends
// @Summary      Send a friend request
// @Description  The target user is resolved by email or username
// @Tags         friends
// @Accept       json
// @Produce      json
// @Param        request body FriendRequestRequest true "Friend request"
// @Success      201 {object} response.Envelope{data=FriendResponse}
// @Failure      400 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /friends [post]
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req FriendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	friend, err := h.service.SendFriendRequest(r.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrCannotBefriend), errors.Is(err, ErrAlreadyFriends), errors.Is(err, ErrNoIdentifier):
			response.BadRequest(w, err.Error())
		default:
			log.WithError(err).Error("Failed to send friend request")
			response.InternalError(w, "Failed to send friend request")
		}
		return
	}

	response.JSON(w, http.StatusCreated, friend.ToResponse())
}

// ListFriends handles GET /friends
// @Summary      List the caller's friends
// @Tags         friends
// @Produce      json
// @Success      200 {object} response.Envelope{data=[]FriendResponse}
// @Router       /friends [get]
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	friends, err := h.service.ListFriends(r.Context(), callerID)
	if err != nil {
		log.WithError(err).Error("Failed to list friends")
		response.InternalError(w, "Failed to list friends")
		return
	}

	responses := make([]*FriendResponse, len(friends))
	for i, f := range friends {
		responses[i] = f.ToResponse()
	}

	response.JSON(w, http.StatusOK, responses)
}

// ListRequests handles GET /friends/requests
// @Summary      List friend requests awaiting the caller's response
// @Tags         friends
// @Produce      json
// @Success      200 {object} response.Envelope{data=[]FriendResponse}
// @Router       /friends/requests [get]
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	requests, err := h.service.ListPendingRequests(r.Context(), callerID)
	if err != nil {
		log.WithError(err).Error("Failed to list friend requests")
		response.InternalError(w, "Failed to list friend requests")
		return
	}

	responses := make([]*FriendResponse, len(requests))
	for i, f := range requests {
		responses[i] = f.ToResponse()
	}

	response.JSON(w, http.StatusOK, responses)
}

// AcceptRequest handles POST /friends/requests/{id}/accept
// @Summary      Accept a friend request
// @Tags         friends
// @Param        id path string true "Request ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /friends/requests/{id}/accept [post]
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.service.AcceptFriendRequest, "Friend request accepted")
}

// RejectRequest handles POST /friends/requests/{id}/reject
// @Summary      Reject a friend request
// @Tags         friends
// @Param        id path string true "Request ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /friends/requests/{id}/reject [post]
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.service.RejectFriendRequest, "Friend request rejected")
}

// BlockRequest handles POST /friends/requests/{id}/block
// @Summary      Block a friend request's sender
// @Tags         friends
// @Param        id path string true "Request ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /friends/requests/{id}/block [post]
func (h *Handler) BlockRequest(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.service.BlockFriendRequest, "Friend request blocked")
}

func (h *Handler) respondToRequest(w http.ResponseWriter, r *http.Request, respond func(ctx context.Context, callerID, requestID uuid.UUID) error, message string) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	if err := respond(r.Context(), callerID, requestID); err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotRequestTarget):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrNotPending):
			response.BadRequest(w, err.Error())
		default:
			log.WithError(err).Error("Failed to respond to friend request")
			response.InternalError(w, "Failed to respond to friend request")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": message})
}
