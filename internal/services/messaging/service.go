package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/yamigumo/werewolf-gm/internal/models"
	"github.com/yamigumo/werewolf-gm/internal/services/game"
)

// service implements the Service interface
type service struct {
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	return &service{}, nil
}

// displayName formats a target as "HO1 (Alice)", falling back to the bare
// label when the name is unknown
func displayName(label, name string) string {
	if name == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, name)
}

// roleTexts returns the two prepared texts for a role and target. Variant A
// is the innocent reading, variant B the guilty one; for roles without a
// verdict the pair is just two different instructions.
func roleTexts(role MessageRole, disp string) (string, string) {
	switch role {
	case RoleSeer:
		return fmt.Sprintf("Revelation: %s is a villager.", disp),
			fmt.Sprintf("Revelation: %s is a werewolf.", disp)
	case RoleMedium:
		return fmt.Sprintf("The medium's reading of %s came back white.", disp),
			fmt.Sprintf("The medium's reading of %s came back black.", disp)
	case RoleHunter:
		return fmt.Sprintf("Tonight you guard %s.", disp),
			fmt.Sprintf("Tonight you do not guard %s.", disp)
	case RoleMadman:
		return fmt.Sprintf("Orders regarding %s: blend into the village.", disp),
			fmt.Sprintf("Orders regarding %s: back the wolves.", disp)
	case RoleWerewolf:
		return fmt.Sprintf("Pack word on %s: lie low tonight.", disp),
			fmt.Sprintf("Pack word on %s: strike openly tonight.", disp)
	}
	return fmt.Sprintf("Message for %s.", disp),
		fmt.Sprintf("Message for %s (alternate).", disp)
}

// GetRoleResultMessage returns the night-result text the GM relays to a player
func (s *service) GetRoleResultMessage(ctx context.Context, input *GetRoleResultMessageInput) (*GetRoleResultMessageOutput, error) {
	disp := displayName(input.TargetLabel, input.TargetName)
	a, b := roleTexts(input.Role, disp)

	msg := a
	if input.Variant == VariantB {
		msg = b
	}

	return &GetRoleResultMessageOutput{Message: msg}, nil
}

// GetRoleResultPreviews returns both template variants for a role and target
func (s *service) GetRoleResultPreviews(ctx context.Context, input *GetRoleResultPreviewsInput) (*GetRoleResultPreviewsOutput, error) {
	disp := displayName(input.TargetLabel, input.TargetName)
	a, b := roleTexts(input.Role, disp)

	return &GetRoleResultPreviewsOutput{
		VariantA: a,
		VariantB: b,
	}, nil
}

// GetPhaseAnnouncement returns the public announcement for a phase change
func (s *service) GetPhaseAnnouncement(ctx context.Context, input *GetPhaseAnnouncementInput) (*GetPhaseAnnouncementOutput, error) {
	var msg string
	switch input.Phase {
	case models.PhaseNight:
		msg = fmt.Sprintf("🌙 Night of day %d falls. Voting is open; cast your vote from your room.", input.Day)
	default:
		msg = fmt.Sprintf("☀️ Day %d begins. Discuss!", input.Day)
	}

	return &GetPhaseAnnouncementOutput{Message: msg}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	var msg string
	switch {
	case errors.Is(input.Err, game.ErrVotingClosed):
		msg = "Voting has closed for tonight."
	case errors.Is(input.Err, game.ErrNoParticipants):
		msg = "No one has entered yet. Open entry first."
	case errors.Is(input.Err, game.ErrReverseAlreadyUsed):
		msg = "The spirit reverse has already been used this game."
	case errors.Is(input.Err, game.ErrUnknownAbility):
		msg = "That ability is not tracked."
	case input.Err == nil:
		msg = "Done."
	default:
		msg = "Something went wrong. Check the GM log."
	}

	return &GetErrorMessageOutput{Message: msg}, nil
}
