package models

import "time"

// PanelKind identifies a managed message panel in a guild
type PanelKind string

const (
	// PanelDashboard is the GM dashboard panel in the control channel
	PanelDashboard PanelKind = "dashboard"

	// PanelTally is the vote tally message in the GM vote channel
	PanelTally PanelKind = "tally"

	// PanelEntry is the participant registration panel
	PanelEntry PanelKind = "entry"
)

// PanelRefs remembers the last message id posted for each panel so refreshes
// can edit instead of repost. Ids go stale if a message is deleted out of
// band; readers must fall back to sending a new message.
type PanelRefs struct {
	DashboardMessageID string `json:"dashboard_message_id,omitempty"`
	TallyMessageID     string `json:"tally_message_id,omitempty"`
	EntryMessageID     string `json:"entry_message_id,omitempty"`
}

// GuildEnv records the platform artifacts (roles, channels) the bot has
// created for a guild. Purely bookkeeping; the ids carry no game semantics.
type GuildEnv struct {
	PlayerRoleID     string            `json:"player_role_id,omitempty"`
	GMRoleID         string            `json:"gm_role_id,omitempty"`
	GMCategoryID     string            `json:"gm_category_id,omitempty"`
	ControlChannelID string            `json:"control_channel_id,omitempty"`
	LogChannelID     string            `json:"log_channel_id,omitempty"`
	HOCategoryID     string            `json:"ho_category_id,omitempty"`
	HORoles          map[string]string `json:"ho_roles,omitempty"`
	HOChannels       map[string]string `json:"ho_channels,omitempty"`
}

// AuditEntry records a single GM-visible action taken against a guild's game
type AuditEntry struct {
	// ID is a unique identifier for the entry
	ID string `json:"id"`

	// At is when the action was recorded
	At time.Time `json:"at"`

	// Actor is the platform user id of whoever triggered the action, if known
	Actor string `json:"actor,omitempty"`

	// Action is a short human-readable description
	Action string `json:"action"`
}

// GuildState is the full per-guild sub-document
type GuildState struct {
	// Participants preserves registration order; order determines
	// sequential role-label assignment
	Participants []*Participant `json:"participants"`

	// Game is the day counter and phase
	Game GameState `json:"game"`

	// Votes maps voter role label to target role label for the current
	// night. Reinitialized on every night entry.
	Votes map[string]string `json:"votes"`

	// NightActions maps ability -> actor label -> target label, cleared on
	// every night entry. The store performs no duplicate checks; the last
	// write wins.
	NightActions map[Ability]map[string]string `json:"night_actions"`

	// VotingOpen gates vote submission while in the night phase
	VotingOpen bool `json:"voting_open"`

	// ReverseUsed is the one-shot spirit reverse gate; only a full guild
	// reset clears it
	ReverseUsed bool `json:"reverse_used"`

	// Panels holds last-known panel message ids
	Panels PanelRefs `json:"panels"`

	// Env holds platform artifact bookkeeping
	Env GuildEnv `json:"env"`

	// Audit is the trail of GM actions, most recent last
	Audit []AuditEntry `json:"audit,omitempty"`
}

// NewGuildState returns an empty guild sub-document in its initial state
func NewGuildState() *GuildState {
	return &GuildState{
		Participants: []*Participant{},
		Game:         NewGameState(),
		Votes:        map[string]string{},
		NightActions: map[Ability]map[string]string{},
	}
}

// Clone returns an independent deep copy of the guild state
func (g *GuildState) Clone() *GuildState {
	if g == nil {
		return nil
	}
	cp := &GuildState{
		Participants: make([]*Participant, 0, len(g.Participants)),
		Game:         g.Game,
		Votes:        make(map[string]string, len(g.Votes)),
		NightActions: make(map[Ability]map[string]string, len(g.NightActions)),
		VotingOpen:   g.VotingOpen,
		ReverseUsed:  g.ReverseUsed,
		Panels:       g.Panels,
		Env:          g.Env,
	}
	for _, p := range g.Participants {
		cp.Participants = append(cp.Participants, p.Clone())
	}
	for voter, target := range g.Votes {
		cp.Votes[voter] = target
	}
	for ability, actions := range g.NightActions {
		inner := make(map[string]string, len(actions))
		for actor, target := range actions {
			inner[actor] = target
		}
		cp.NightActions[ability] = inner
	}
	if g.Env.HORoles != nil {
		cp.Env.HORoles = make(map[string]string, len(g.Env.HORoles))
		for k, v := range g.Env.HORoles {
			cp.Env.HORoles[k] = v
		}
	}
	if g.Env.HOChannels != nil {
		cp.Env.HOChannels = make(map[string]string, len(g.Env.HOChannels))
		for k, v := range g.Env.HOChannels {
			cp.Env.HOChannels[k] = v
		}
	}
	if g.Audit != nil {
		cp.Audit = make([]AuditEntry, len(g.Audit))
		copy(cp.Audit, g.Audit)
	}
	return cp
}
