package models

// Phase represents the coarse day/night state of the game clock
type Phase string

const (
	// PhaseDay indicates the daytime discussion phase
	PhaseDay Phase = "day"

	// PhaseNight indicates the night phase in which votes and night
	// actions are collected
	PhaseNight Phase = "night"
)

// Ability identifies a night-action ability recorded by the GM
type Ability string

const (
	// AbilitySeer is the seer's divination
	AbilitySeer Ability = "seer"

	// AbilityMedium is the medium's reading of the last execution
	AbilityMedium Ability = "medium"

	// AbilityHunter is the hunter's guard target
	AbilityHunter Ability = "hunter"

	// AbilityWerewolf is the werewolves' attack target
	AbilityWerewolf Ability = "werewolf"
)

// Abilities lists every ability the dashboard exposes, in display order
var Abilities = []Ability{AbilitySeer, AbilityMedium, AbilityHunter, AbilityWerewolf}

// GameState tracks a guild's day counter and phase
type GameState struct {
	// Day starts at 0 and increments only on day entry
	Day int `json:"day"`

	// Phase is the current phase of the game clock
	Phase Phase `json:"phase"`
}

// NewGameState returns the initial game state for a fresh guild
func NewGameState() GameState {
	return GameState{Day: 0, Phase: PhaseDay}
}
