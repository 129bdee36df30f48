package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

// AdvanceDay increments the day counter and returns to the day phase. It is
// allowed from either phase so a GM can wrap a broken night.
func (s *service) AdvanceDay(ctx context.Context, input *AdvanceDayInput) (*AdvanceDayOutput, error) {
	out := &AdvanceDayOutput{}

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		g.Game.Day++
		g.Game.Phase = models.PhaseDay
		s.audit(g, input.Actor, fmt.Sprintf("advance to day %d", g.Game.Day))
		out.Day = g.Game.Day
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// EnterNight moves to the night phase. The vote map is reinitialized over the
// currently assigned role labels, the night-action record is cleared for the
// new night, and voting opens. The day counter never changes here.
func (s *service) EnterNight(ctx context.Context, input *EnterNightInput) (*EnterNightOutput, error) {
	out := &EnterNightOutput{}

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		g.Game.Phase = models.PhaseNight

		g.Votes = make(map[string]string)
		for _, p := range g.Participants {
			if p.HO != "" {
				g.Votes[p.HO] = ""
				out.Labels = append(out.Labels, p.HO)
			}
		}
		g.NightActions = make(map[models.Ability]map[string]string)
		g.VotingOpen = true

		s.audit(g, input.Actor, fmt.Sprintf("enter night of day %d, voting opened", g.Game.Day))
		out.Day = g.Game.Day
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(out.Labels)
	return out, nil
}

// SubmitVote records a vote for the current night. A vote while the gate is
// closed is rejected; otherwise the last write wins, with no duplicate guard.
func (s *service) SubmitVote(ctx context.Context, input *SubmitVoteInput) (*SubmitVoteOutput, error) {
	var closed bool

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		if !g.VotingOpen {
			closed = true
			return
		}
		if g.Votes == nil {
			g.Votes = make(map[string]string)
		}
		g.Votes[input.VoterLabel] = input.TargetLabel
		s.audit(g, input.VoterLabel, fmt.Sprintf("vote %s -> %s", input.VoterLabel, input.TargetLabel))
	})
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, ErrVotingClosed
	}

	return &SubmitVoteOutput{}, nil
}

// CloseVoting closes the voting gate; later SubmitVote calls are rejected
func (s *service) CloseVoting(ctx context.Context, input *CloseVotingInput) (*CloseVotingOutput, error) {
	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		g.VotingOpen = false
		s.audit(g, input.Actor, "close voting")
	})
	if err != nil {
		return nil, err
	}

	return &CloseVotingOutput{}, nil
}

// SubmitNightAction records an ability use for the current night. The store
// keeps no duplicate guard: a second submission for the same ability and
// actor silently overwrites.
func (s *service) SubmitNightAction(ctx context.Context, input *SubmitNightActionInput) (*SubmitNightActionOutput, error) {
	if !validAbility(input.Ability) {
		return nil, ErrUnknownAbility
	}

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		if g.NightActions == nil {
			g.NightActions = make(map[models.Ability]map[string]string)
		}
		actions := g.NightActions[input.Ability]
		if actions == nil {
			actions = make(map[string]string)
			g.NightActions[input.Ability] = actions
		}
		actions[input.ActorLabel] = input.TargetLabel
		s.audit(g, input.ActorLabel, fmt.Sprintf("night action %s: %s -> %s", input.Ability, input.ActorLabel, input.TargetLabel))
	})
	if err != nil {
		return nil, err
	}

	return &SubmitNightActionOutput{}, nil
}

// GetTally returns the current vote tally. Voters are listed in
// lexicographic label order ("HO10" before "HO2"); entries for labels no
// longer assigned to anyone are tolerated and simply not rendered.
func (s *service) GetTally(ctx context.Context, input *GetTallyInput) (*GetTallyOutput, error) {
	doc, err := s.store.ReadState(ctx)
	if err != nil {
		return nil, err
	}

	out := &GetTallyOutput{}
	g, ok := doc.Guilds[input.GuildID]
	if !ok {
		return out, nil
	}
	out.Day = g.Game.Day
	out.VotingOpen = g.VotingOpen

	nameByHO := make(map[string]string, len(g.Participants))
	labels := make([]string, 0, len(g.Participants))
	for _, p := range g.Participants {
		if p.HO == "" {
			continue
		}
		nameByHO[p.HO] = p.Name
		labels = append(labels, p.HO)
	}
	sort.Strings(labels)

	for _, label := range labels {
		target := g.Votes[label]
		out.Rows = append(out.Rows, TallyRow{
			Voter:      label,
			Target:     target,
			TargetName: nameByHO[target],
		})
	}

	return out, nil
}

// UseSpiritReverse consumes the one-shot reverse gate. Only a full guild
// reset makes it available again.
func (s *service) UseSpiritReverse(ctx context.Context, input *UseSpiritReverseInput) (*UseSpiritReverseOutput, error) {
	var used bool

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		if g.ReverseUsed {
			used = true
			return
		}
		g.ReverseUsed = true
		s.audit(g, input.Actor, "use spirit reverse")
	})
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrReverseAlreadyUsed
	}

	return &UseSpiritReverseOutput{}, nil
}

// GetDashboard returns a snapshot of everything the GM dashboard renders
func (s *service) GetDashboard(ctx context.Context, input *GetDashboardInput) (*GetDashboardOutput, error) {
	doc, err := s.store.ReadState(ctx)
	if err != nil {
		return nil, err
	}

	out := &GetDashboardOutput{
		Phase:        models.PhaseDay,
		Participants: []*models.Participant{},
	}
	g, ok := doc.Guilds[input.GuildID]
	if !ok {
		return out, nil
	}

	out.Day = g.Game.Day
	out.Phase = g.Game.Phase
	out.VotingOpen = g.VotingOpen
	out.ReverseUsed = g.ReverseUsed
	out.Participants = g.Participants
	out.NightActions = g.NightActions
	for _, p := range g.Participants {
		if p.HO != "" {
			out.Frozen = true
			break
		}
	}

	return out, nil
}

func validAbility(a models.Ability) bool {
	for _, known := range models.Abilities {
		if a == known {
			return true
		}
	}
	return false
}
