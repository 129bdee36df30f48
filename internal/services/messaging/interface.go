package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetRoleResultMessage returns the night-result text the GM relays to a player
	GetRoleResultMessage(ctx context.Context, input *GetRoleResultMessageInput) (*GetRoleResultMessageOutput, error)

	// GetRoleResultPreviews returns both template variants for a role and target,
	// for the GM to pick from
	GetRoleResultPreviews(ctx context.Context, input *GetRoleResultPreviewsInput) (*GetRoleResultPreviewsOutput, error)

	// GetPhaseAnnouncement returns the public announcement for a phase change
	GetPhaseAnnouncement(ctx context.Context, input *GetPhaseAnnouncementInput) (*GetPhaseAnnouncementOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
