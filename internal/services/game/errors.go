package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNoParticipants     GameError = "no participants registered"
	ErrVotingClosed       GameError = "voting is closed"
	ErrUnknownAbility     GameError = "unknown ability"
	ErrReverseAlreadyUsed GameError = "spirit reverse has already been used"
	ErrUnknownPanel       GameError = "unknown panel kind"
	ErrNilConfig          GameError = "config cannot be nil"
	ErrNilStore           GameError = "store cannot be nil"
)
