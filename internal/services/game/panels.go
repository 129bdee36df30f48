package game

import (
	"context"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

// GetPanelRef returns the last-known message id for a panel. An empty id
// means no panel has been posted yet; a stale id surfaces later as a
// message-not-found at the platform, which callers treat as "create new".
func (s *service) GetPanelRef(ctx context.Context, input *GetPanelRefInput) (*GetPanelRefOutput, error) {
	if !validPanel(input.Kind) {
		return nil, ErrUnknownPanel
	}

	doc, err := s.store.ReadState(ctx)
	if err != nil {
		return nil, err
	}

	out := &GetPanelRefOutput{}
	g, ok := doc.Guilds[input.GuildID]
	if !ok {
		return out, nil
	}

	switch input.Kind {
	case models.PanelDashboard:
		out.MessageID = g.Panels.DashboardMessageID
	case models.PanelTally:
		out.MessageID = g.Panels.TallyMessageID
	case models.PanelEntry:
		out.MessageID = g.Panels.EntryMessageID
	}

	return out, nil
}

// SetPanelRef remembers the message id for a panel
func (s *service) SetPanelRef(ctx context.Context, input *SetPanelRefInput) (*SetPanelRefOutput, error) {
	if !validPanel(input.Kind) {
		return nil, ErrUnknownPanel
	}

	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		g := doc.Guild(input.GuildID)
		switch input.Kind {
		case models.PanelDashboard:
			g.Panels.DashboardMessageID = input.MessageID
		case models.PanelTally:
			g.Panels.TallyMessageID = input.MessageID
		case models.PanelEntry:
			g.Panels.EntryMessageID = input.MessageID
		}
	})
	if err != nil {
		return nil, err
	}

	return &SetPanelRefOutput{}, nil
}

// GetEnv returns the guild's platform artifact bookkeeping
func (s *service) GetEnv(ctx context.Context, input *GetEnvInput) (*GetEnvOutput, error) {
	doc, err := s.store.ReadState(ctx)
	if err != nil {
		return nil, err
	}

	out := &GetEnvOutput{}
	if g, ok := doc.Guilds[input.GuildID]; ok {
		out.Env = g.Env
	}

	return out, nil
}

// SetEnv replaces the guild's platform artifact bookkeeping
func (s *service) SetEnv(ctx context.Context, input *SetEnvInput) (*SetEnvOutput, error) {
	_, err := s.store.UpdateState(ctx, func(doc *models.Document) {
		doc.Guild(input.GuildID).Env = input.Env
	})
	if err != nil {
		return nil, err
	}

	return &SetEnvOutput{}, nil
}

// GetAuditLog returns the most recent GM actions, oldest first
func (s *service) GetAuditLog(ctx context.Context, input *GetAuditLogInput) (*GetAuditLogOutput, error) {
	doc, err := s.store.ReadState(ctx)
	if err != nil {
		return nil, err
	}

	out := &GetAuditLogOutput{}
	g, ok := doc.Guilds[input.GuildID]
	if !ok {
		return out, nil
	}

	entries := g.Audit
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[len(entries)-input.Limit:]
	}
	out.Entries = entries

	return out, nil
}

func validPanel(k models.PanelKind) bool {
	switch k {
	case models.PanelDashboard, models.PanelTally, models.PanelEntry:
		return true
	}
	return false
}
