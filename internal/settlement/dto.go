package settlement

import "github.com/google/uuid"

// ComputeRequest asks for the settlement plan of a group
type ComputeRequest struct {
	GroupID uuid.UUID `json:"group_id"`
}

// ResetRequest clears the settlement records of a group
type ResetRequest struct {
	GroupID uuid.UUID `json:"group_id"`
}

// RecordRequest persists an acted-upon settlement plan
type RecordRequest struct {
	GroupID     uuid.UUID  `json:"group_id"`
	Settlements []Transfer `json:"settlements"`
}

// SettlementResponse represents a persisted settlement record
type SettlementResponse struct {
	ID           uuid.UUID `json:"id"`
	GroupID      uuid.UUID `json:"group_id"`
	FromUser     uuid.UUID `json:"from_user"`
	FromUsername string    `json:"from_username,omitempty"`
	ToUser       uuid.UUID `json:"to_user"`
	ToUsername   string    `json:"to_username,omitempty"`
	Amount       string    `json:"amount"`
	Status       string    `json:"status"`
	CreatedAt    string    `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromUser:     s.FromUser,
		FromUsername: s.FromUsername,
		ToUser:       s.ToUser,
		ToUsername:   s.ToUsername,
		Amount:       s.Amount.StringFixed(2),
		Status:       s.Status,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
