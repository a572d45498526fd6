package settlement

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/hamadkw/splitmate/pkg/middleware"
	"github.com/hamadkw/splitmate/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/compute", h.Compute)
	r.Post("/record", h.Record)
	r.Post("/reset", h.Reset)
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Compute handles POST /settlements/compute
// @Summary      Compute a settlement plan
// @Description  Derive member balances from the group's expenses and the minimal transfers that settle them
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body ComputeRequest true "Group to compute"
// @Success      200 {object} response.Envelope{data=Plan}
// @Failure      403 {object} response.Envelope
// @Router       /settlements/compute [post]
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == uuid.Nil {
		response.BadRequest(w, "group_id is required")
		return
	}

	plan, err := h.service.ComputeSettlements(r.Context(), callerID, req.GroupID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			response.Forbidden(w, err.Error())
			return
		}
		log.WithError(err).Error("Failed to compute settlements")
		response.InternalError(w, "Failed to compute settlements")
		return
	}

	response.JSON(w, http.StatusOK, plan)
}

// Record handles POST /settlements/record
// @Summary      Record an acted-upon settlement plan
// @Description  Persist the transfers of a plan the members have carried out
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body RecordRequest true "Plan to record"
// @Success      201 {object} response.Envelope{data=[]SettlementResponse}
// @Failure      400 {object} response.Envelope
// @Failure      403 {object} response.Envelope
// @Router       /settlements/record [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == uuid.Nil {
		response.BadRequest(w, "group_id is required")
		return
	}

	recorded, err := h.service.RecordSettlements(r.Context(), callerID, req.GroupID, req.Settlements)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAMember):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrEmptyPlan), errors.Is(err, ErrInvalidTransfer):
			response.BadRequest(w, err.Error())
		default:
			log.WithError(err).Error("Failed to record settlements")
			response.InternalError(w, "Failed to record settlements")
		}
		return
	}

	responses := make([]*SettlementResponse, len(recorded))
	for i, s := range recorded {
		responses[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusCreated, responses)
}

// Reset handles POST /settlements/reset
// @Summary      Reset a group's settlement log
// @Description  Deletes the group's persisted settlement records; expenses and splits are retained
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body ResetRequest true "Group to reset"
// @Success      200 {object} response.Envelope
// @Failure      403 {object} response.Envelope
// @Router       /settlements/reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == uuid.Nil {
		response.BadRequest(w, "group_id is required")
		return
	}

	if err := h.service.ResetSettlements(r.Context(), callerID, req.GroupID); err != nil {
		if errors.Is(err, ErrNotAMember) {
			response.Forbidden(w, err.Error())
			return
		}
		log.WithError(err).Error("Failed to reset settlements")
		response.InternalError(w, "Failed to reset settlements")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Settlements reset"})
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List a group's settlement history
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.Envelope{data=[]SettlementResponse}
// @Failure      403 {object} response.Envelope
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupId"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	settlements, err := h.service.ListByGroup(r.Context(), callerID, groupID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			response.Forbidden(w, err.Error())
			return
		}
		log.WithError(err).Error("Failed to list settlements")
		response.InternalError(w, "Failed to list settlements")
		return
	}

	responses := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		responses[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusOK, responses)
}
