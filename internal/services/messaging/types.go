package messaging

import "github.com/yamigumo/werewolf-gm/internal/models"

// MessageRole identifies which role's result template to use. This is wider
// than the night-action abilities: the madman gets GM messages but never
// submits a night action.
type MessageRole string

const (
	// RoleSeer is the seer divination result
	RoleSeer MessageRole = "seer"

	// RoleMedium is the medium reading of the day's executed player
	RoleMedium MessageRole = "medium"

	// RoleHunter is the hunter guard confirmation
	RoleHunter MessageRole = "hunter"

	// RoleMadman is the madman strategy note
	RoleMadman MessageRole = "madman"

	// RoleWerewolf is the werewolf pack instruction
	RoleWerewolf MessageRole = "werewolf"
)

// MessageRoles lists every role the GM can message, in menu order
var MessageRoles = []MessageRole{RoleSeer, RoleMedium, RoleHunter, RoleMadman, RoleWerewolf}

// Variant selects one of the two prepared texts for a role result
type Variant string

const (
	// VariantA is the first prepared text (typically the "innocent" result)
	VariantA Variant = "a"

	// VariantB is the second prepared text (typically the "guilty" result)
	VariantB Variant = "b"
)

// GetRoleResultMessageInput contains parameters for getting a role result message
type GetRoleResultMessageInput struct {
	// Role is the role whose template to use
	Role MessageRole

	// TargetLabel is the role label of the player the result is about
	TargetLabel string

	// TargetName is the display name behind TargetLabel, if known
	TargetName string

	// Variant picks which of the two prepared texts to use
	Variant Variant
}

// GetRoleResultMessageOutput contains the result of getting a role result message
type GetRoleResultMessageOutput struct {
	// Message is the text for the GM to relay
	Message string
}

// GetRoleResultPreviewsInput contains parameters for previewing both variants
type GetRoleResultPreviewsInput struct {
	Role        MessageRole
	TargetLabel string
	TargetName  string
}

// GetRoleResultPreviewsOutput contains both prepared texts
type GetRoleResultPreviewsOutput struct {
	VariantA string
	VariantB string
}

// GetPhaseAnnouncementInput contains parameters for a phase announcement
type GetPhaseAnnouncementInput struct {
	// Phase is the phase being entered
	Phase models.Phase

	// Day is the current day number
	Day int
}

// GetPhaseAnnouncementOutput contains the announcement text
type GetPhaseAnnouncementOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// Err is the error to explain
	Err error
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	// Message is the user-facing text
	Message string
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
}
