package game

import "github.com/yamigumo/werewolf-gm/internal/models"

// Member is a roster entry used when syncing participants from platform roles
type Member struct {
	ID   int64
	Name string
}

// TallyRow is one line of the vote tally
type TallyRow struct {
	// Voter is the voting role label
	Voter string

	// Target is the voted role label; empty when the voter has not voted
	Target string

	// TargetName is the display name behind Target, when still resolvable
	TargetName string
}

type AddParticipantInput struct {
	GuildID string
	UserID  int64
	Name    string
	Actor   string
}

type AddParticipantOutput struct {
	Participant *models.Participant

	// AlreadyRegistered is true when the add was a no-op
	AlreadyRegistered bool
}

type RemoveParticipantInput struct {
	GuildID string
	UserID  int64
	Actor   string
}

type RemoveParticipantOutput struct {
	Removed bool
}

type SyncParticipantsInput struct {
	GuildID string
	Members []Member
	Actor   string
}

type SyncParticipantsOutput struct {
	Participants []*models.Participant
}

type GetParticipantsInput struct {
	GuildID string
}

type GetParticipantsOutput struct {
	Participants []*models.Participant
}

type AssignRoleLabelsInput struct {
	GuildID string
	Actor   string
}

type AssignRoleLabelsOutput struct {
	Participants []*models.Participant
}

type AdvanceDayInput struct {
	GuildID string
	Actor   string
}

type AdvanceDayOutput struct {
	Day int
}

type EnterNightInput struct {
	GuildID string
	Actor   string
}

type EnterNightOutput struct {
	Day int

	// Labels are the role labels voting was opened for
	Labels []string
}

type SubmitVoteInput struct {
	GuildID     string
	VoterLabel  string
	TargetLabel string
}

type SubmitVoteOutput struct {
}

type CloseVotingInput struct {
	GuildID string
	Actor   string
}

type CloseVotingOutput struct {
}

type SubmitNightActionInput struct {
	GuildID     string
	Ability     models.Ability
	ActorLabel  string
	TargetLabel string
}

type SubmitNightActionOutput struct {
}

type GetTallyInput struct {
	GuildID string
}

type GetTallyOutput struct {
	Day        int
	VotingOpen bool
	Rows       []TallyRow
}

type UseSpiritReverseInput struct {
	GuildID string
	Actor   string
}

type UseSpiritReverseOutput struct {
}

type GetDashboardInput struct {
	GuildID string
}

type GetDashboardOutput struct {
	Day          int
	Phase        models.Phase
	VotingOpen   bool
	ReverseUsed  bool
	Frozen       bool
	Participants []*models.Participant
	NightActions map[models.Ability]map[string]string
}

type GetPanelRefInput struct {
	GuildID string
	Kind    models.PanelKind
}

type GetPanelRefOutput struct {
	MessageID string
}

type SetPanelRefInput struct {
	GuildID   string
	Kind      models.PanelKind
	MessageID string
}

type SetPanelRefOutput struct {
}

type GetEnvInput struct {
	GuildID string
}

type GetEnvOutput struct {
	Env models.GuildEnv
}

type SetEnvInput struct {
	GuildID string
	Env     models.GuildEnv
}

type SetEnvOutput struct {
}

type GetAuditLogInput struct {
	GuildID string

	// Limit caps the number of entries returned; 0 means all retained
	Limit int
}

type GetAuditLogOutput struct {
	Entries []models.AuditEntry
}

type ResetGuildInput struct {
	GuildID string
	Actor   string
}

type ResetGuildOutput struct {
}
