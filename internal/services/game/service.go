package game

import (
	"context"
	"fmt"

	"github.com/yamigumo/werewolf-gm/internal/common/clock"
	"github.com/yamigumo/werewolf-gm/internal/common/uuid"
	"github.com/yamigumo/werewolf-gm/internal/models"
	"github.com/yamigumo/werewolf-gm/internal/store"
)

// maxAuditEntries bounds the per-guild audit trail so the single state
// document stays small
const maxAuditEntries = 200

// Config holds configuration for the game service
type Config struct {
	// Store is the persisted state store
	Store *store.Store

	// Clock provides timestamps for audit entries; defaults to the system
	// clock
	Clock clock.Clock

	// UUIDGenerator provides ids for audit entries; defaults to random UUIDs
	UUIDGenerator uuid.UUID
}

// service implements the Service interface
type service struct {
	store *store.Store
	clock clock.Clock
	uuid  uuid.UUID
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Store == nil {
		return nil, ErrNilStore
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	u := cfg.UUIDGenerator
	if u == nil {
		u = uuid.New()
	}

	return &service{
		store: cfg.Store,
		clock: c,
		uuid:  u,
	}, nil
}

// audit appends a GM action to the guild's trail, dropping the oldest
// entries past the cap. Must be called from inside an UpdateState mutator.
func (s *service) audit(g *models.GuildState, actor, action string) {
	g.Audit = append(g.Audit, models.AuditEntry{
		ID:     s.uuid.NewUUID(),
		At:     s.clock.Now(),
		Actor:  actor,
		Action: action,
	})
	if len(g.Audit) > maxAuditEntries {
		g.Audit = g.Audit[len(g.Audit)-maxAuditEntries:]
	}
}

// AddParticipant registers a player. Adding an id that is already registered
// is a no-op and keeps the first-seen name.
func (s *service) AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error) {
	out := &AddParticipantOutput{}

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		for _, p := range g.Participants {
			if p.ID == input.UserID {
				out.Participant = p.Clone()
				out.AlreadyRegistered = true
				return
			}
		}
		p := &models.Participant{
			ID:   input.UserID,
			Name: input.Name,
		}
		g.Participants = append(g.Participants, p)
		out.Participant = p.Clone()
		s.audit(g, input.Actor, fmt.Sprintf("add participant %s (%d)", input.Name, input.UserID))
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// RemoveParticipant filters the participant out; no error if absent
func (s *service) RemoveParticipant(ctx context.Context, input *RemoveParticipantInput) (*RemoveParticipantOutput, error) {
	out := &RemoveParticipantOutput{}

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		kept := g.Participants[:0]
		for _, p := range g.Participants {
			if p.ID == input.UserID {
				out.Removed = true
				continue
			}
			kept = append(kept, p)
		}
		g.Participants = kept
		if out.Removed {
			s.audit(g, input.Actor, fmt.Sprintf("remove participant %d", input.UserID))
		}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SyncParticipants rebuilds the list from a roster, preserving existing role
// labels by user id
func (s *service) SyncParticipants(ctx context.Context, input *SyncParticipantsInput) (*SyncParticipantsOutput, error) {
	out := &SyncParticipantsOutput{}

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)

		existing := make(map[int64]string, len(g.Participants))
		for _, p := range g.Participants {
			existing[p.ID] = p.HO
		}

		rebuilt := make([]*models.Participant, 0, len(input.Members))
		for _, m := range input.Members {
			rebuilt = append(rebuilt, &models.Participant{
				ID:   m.ID,
				Name: m.Name,
				HO:   existing[m.ID],
			})
		}
		g.Participants = rebuilt
		s.audit(g, input.Actor, fmt.Sprintf("sync participants (%d members)", len(rebuilt)))

		out.Participants = cloneParticipants(g.Participants)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetParticipants returns the registered participants in arrival order
func (s *service) GetParticipants(ctx context.Context, input *GetParticipantsInput) (*GetParticipantsOutput, error) {
	doc, err := s.store.ReadState(ctx)
	if err != nil {
		return nil, err
	}

	g, ok := doc.Guilds[input.GuildID]
	if !ok {
		return &GetParticipantsOutput{Participants: []*models.Participant{}}, nil
	}

	return &GetParticipantsOutput{Participants: g.Participants}, nil
}

// AssignRoleLabels assigns HO1..HOn in arrival order, overwriting any prior
// assignment. This is the freeze operation: re-running it after the list has
// changed re-numbers everyone.
func (s *service) AssignRoleLabels(ctx context.Context, input *AssignRoleLabelsInput) (*AssignRoleLabelsOutput, error) {
	out := &AssignRoleLabelsOutput{}
	var empty bool

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		if len(g.Participants) == 0 {
			empty = true
			return
		}
		for i, p := range g.Participants {
			p.HO = fmt.Sprintf("HO%d", i+1)
		}
		s.audit(g, input.Actor, fmt.Sprintf("assign role labels HO1..HO%d", len(g.Participants)))
		out.Participants = cloneParticipants(g.Participants)
	})
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, ErrNoParticipants
	}

	return out, nil
}

// ResetGuild wipes one guild's sub-document; other guilds are untouched.
// Platform artifacts (roles, channels) are the caller's to clean up.
func (s *service) ResetGuild(ctx context.Context, input *ResetGuildInput) (*ResetGuildOutput, error) {
	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		delete(doc.Guilds, input.GuildID)
	})
	if err != nil {
		return nil, err
	}

	return &ResetGuildOutput{}, nil
}

func cloneParticipants(ps []*models.Participant) []*models.Participant {
	out := make([]*models.Participant, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Clone())
	}
	return out
}
