package dto

import "github.com/google/uuid"

// SessionChangedMessage is the payload pushed through the in-process bus
// whenever a session mutation commits. Consumers fan it out to websocket
// subscribers and the external event stream.
type SessionChangedMessage struct {
	SessionId   uuid.UUID `json:"session_id"`
	HouseholdId uuid.UUID `json:"household_id"`
	Change      string    `json:"change"`
}
