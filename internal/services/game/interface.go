package game

import "context"

// Service defines the interface for game-master operations
type Service interface {
	// AddParticipant registers a player; a second add for the same user id
	// is a no-op
	AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error)

	// RemoveParticipant unregisters a player; absent players are ignored
	RemoveParticipant(ctx context.Context, input *RemoveParticipantInput) (*RemoveParticipantOutput, error)

	// SyncParticipants rebuilds the participant list from a member roster,
	// preserving existing role labels by user id
	SyncParticipants(ctx context.Context, input *SyncParticipantsInput) (*SyncParticipantsOutput, error)

	// GetParticipants returns the registered participants in arrival order
	GetParticipants(ctx context.Context, input *GetParticipantsInput) (*GetParticipantsOutput, error)

	// AssignRoleLabels freezes the participant list and assigns sequential
	// role labels HO1..HOn in arrival order
	AssignRoleLabels(ctx context.Context, input *AssignRoleLabelsInput) (*AssignRoleLabelsOutput, error)

	// AdvanceDay increments the day counter and returns to the day phase
	AdvanceDay(ctx context.Context, input *AdvanceDayInput) (*AdvanceDayOutput, error)

	// EnterNight moves to the night phase, reinitializes the vote map over
	// the currently assigned labels, clears night actions and opens voting
	EnterNight(ctx context.Context, input *EnterNightInput) (*EnterNightOutput, error)

	// SubmitVote records a vote for the current night; the last write wins
	SubmitVote(ctx context.Context, input *SubmitVoteInput) (*SubmitVoteOutput, error)

	// CloseVoting closes the voting gate for the current night
	CloseVoting(ctx context.Context, input *CloseVotingInput) (*CloseVotingOutput, error)

	// SubmitNightAction records an ability use; a second submission for the
	// same ability and actor silently overwrites
	SubmitNightAction(ctx context.Context, input *SubmitNightActionInput) (*SubmitNightActionOutput, error)

	// GetTally returns the current vote tally, voters in lexicographic
	// label order
	GetTally(ctx context.Context, input *GetTallyInput) (*GetTallyOutput, error)

	// UseSpiritReverse consumes the one-shot spirit reverse gate
	UseSpiritReverse(ctx context.Context, input *UseSpiritReverseInput) (*UseSpiritReverseOutput, error)

	// GetDashboard returns a snapshot of everything the GM dashboard renders
	GetDashboard(ctx context.Context, input *GetDashboardInput) (*GetDashboardOutput, error)

	// GetPanelRef returns the last-known message id for a panel
	GetPanelRef(ctx context.Context, input *GetPanelRefInput) (*GetPanelRefOutput, error)

	// SetPanelRef remembers the message id for a panel
	SetPanelRef(ctx context.Context, input *SetPanelRefInput) (*SetPanelRefOutput, error)

	// GetEnv returns the guild's platform artifact bookkeeping
	GetEnv(ctx context.Context, input *GetEnvInput) (*GetEnvOutput, error)

	// SetEnv replaces the guild's platform artifact bookkeeping
	SetEnv(ctx context.Context, input *SetEnvInput) (*SetEnvOutput, error)

	// GetAuditLog returns the most recent GM actions for a guild
	GetAuditLog(ctx context.Context, input *GetAuditLogInput) (*GetAuditLogOutput, error)

	// ResetGuild wipes one guild's game data; other guilds are untouched
	ResetGuild(ctx context.Context, input *ResetGuildInput) (*ResetGuildOutput, error)
}
