package models

// Participant represents a registered player in a guild's game
type Participant struct {
	// ID is the platform user id of the player
	ID int64 `json:"id"`

	// Name is a snapshot of the player's display name at registration time
	Name string `json:"name"`

	// HO is the assigned role label ("HO1", "HO2", ...); empty until the
	// participant list is frozen
	HO string `json:"ho,omitempty"`
}

// Clone returns an independent copy of the participant
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
