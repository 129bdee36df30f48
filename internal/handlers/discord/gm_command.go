package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/yamigumo/werewolf-gm/internal/services/game"
	"github.com/yamigumo/werewolf-gm/internal/services/messaging"
)

// GMCommand handles the /gm command
type GMCommand struct {
	BaseCommand
	bot              *Bot
	gameService      game.Service
	messagingService messaging.Service
}

// NewGMCommand creates a new gm command handler
func NewGMCommand(bot *Bot, gameService game.Service, messagingService messaging.Service) *GMCommand {
	roleChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(messaging.MessageRoles))
	for _, role := range messaging.MessageRoles {
		roleChoices = append(roleChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(role),
			Value: string(role),
		})
	}

	return &GMCommand{
		BaseCommand: BaseCommand{
			Name:        "gm",
			Description: "Werewolf game master controls",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setup",
					Description: "Create the GM roles, channels and player rooms",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "entry",
					Description: "Post or refresh the entry panel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "close-entry",
					Description: "Freeze the roster and assign HO labels",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "day",
					Description: "Advance to the next day",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "night",
					Description: "Enter night and open voting",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "close-vote",
					Description: "Close voting and show the tally",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "tally",
					Description: "Show the current vote tally",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "message",
					Description: "Compose a role result message",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "role",
							Description: "Role whose result to compose",
							Required:    true,
							Choices:     roleChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "target",
							Description: "Target HO label",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "variant",
							Description: "Which prepared text to use",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "a", Value: "a"},
								{Name: "b", Value: "b"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "sync",
					Description: "Sync participants from the player role",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "log",
					Description: "Show recent GM actions",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Wipe this guild's game state",
				},
			},
		},
		bot:              bot,
		gameService:      gameService,
		messagingService: messagingService,
	}
}

// Handle processes a Discord interaction for the gm command
func (c *GMCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	guildID := i.GuildID
	username := i.Member.User.Username
	if i.Member.Nick != "" {
		username = i.Member.Nick
	}

	var err error
	switch data.Options[0].Name {
	case "setup":
		err = c.handleSetup(s, i, guildID, username)
	case "entry":
		err = c.handleEntry(s, i, guildID)
	case "close-entry":
		err = c.handleCloseEntry(s, i, guildID, username)
	case "day":
		err = c.bot.handleAdvanceDayButton(s, i, guildID, username)
	case "night":
		err = c.bot.handleEnterNightButton(s, i, guildID, username)
	case "close-vote":
		err = c.bot.handleCloseVotingButton(s, i, guildID, username)
	case "tally":
		err = c.handleTally(s, i, guildID)
	case "message":
		err = c.handleMessage(s, i, guildID, data.Options[0].Options)
	case "sync":
		err = c.handleSync(s, i, guildID, username)
	case "log":
		err = c.handleLog(s, i, guildID)
	case "reset":
		err = c.handleReset(s, i, guildID, username)
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// handleEntry posts or refreshes the entry panel in the current channel
func (c *GMCommand) handleEntry(s *discordgo.Session, i *discordgo.InteractionCreate, guildID string) error {
	c.bot.updateEntryPanel(s, guildID, i.ChannelID)
	return RespondWithEphemeralMessage(s, i, "Entry panel is up.")
}

// handleCloseEntry freezes the roster and assigns HO labels
func (c *GMCommand) handleCloseEntry(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	out, err := c.gameService.AssignRoleLabels(ctx, &game.AssignRoleLabelsInput{
		GuildID: guildID,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error assigning role labels: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}

	c.bot.updateEntryPanel(s, guildID, i.ChannelID)
	c.bot.updateDashboardPanel(s, guildID, i.ChannelID)

	assignments := ""
	for _, p := range out.Participants {
		assignments += fmt.Sprintf("**%s**: %s\n", p.HO, p.Name)
	}

	return RespondWithEmbed(s, i, "Entry closed", "The roster is frozen.", []*discordgo.MessageEmbedField{
		{
			Name:   "Assignments",
			Value:  assignments,
			Inline: false,
		},
	})
}

// handleTally shows the current vote tally
func (c *GMCommand) handleTally(s *discordgo.Session, i *discordgo.InteractionCreate, guildID string) error {
	ctx := context.Background()

	tally, err := c.gameService.GetTally(ctx, &game.GetTallyInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting tally: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}

	if len(tally.Rows) == 0 {
		return RespondWithEphemeralMessage(s, i, "No votes to show. Close entry and enter night first.")
	}

	return RespondWithMessage(s, i, renderTallyText(tally))
}

// handleMessage composes a role result text for the GM to relay
func (c *GMCommand) handleMessage(s *discordgo.Session, i *discordgo.InteractionCreate, guildID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	var role, target, variant string
	for _, opt := range opts {
		switch opt.Name {
		case "role":
			role = opt.StringValue()
		case "target":
			target = opt.StringValue()
		case "variant":
			variant = opt.StringValue()
		}
	}
	target = strings.ToUpper(strings.TrimSpace(target))

	// Resolve the display name behind the label, if any
	targetName := ""
	parts, err := c.gameService.GetParticipants(ctx, &game.GetParticipantsInput{GuildID: guildID})
	if err == nil {
		for _, p := range parts.Participants {
			if p.HO == target {
				targetName = p.Name
				break
			}
		}
	}

	if variant == "" {
		// No variant picked; show both prepared texts
		previews, err := c.messagingService.GetRoleResultPreviews(ctx, &messaging.GetRoleResultPreviewsInput{
			Role:        messaging.MessageRole(role),
			TargetLabel: target,
			TargetName:  targetName,
		})
		if err != nil {
			return c.bot.respondServiceError(s, i, err)
		}
		return RespondWithEmbed(s, i, "Role message", "Pick a variant and rerun with `variant`.", []*discordgo.MessageEmbedField{
			{Name: "A", Value: previews.VariantA, Inline: false},
			{Name: "B", Value: previews.VariantB, Inline: false},
		})
	}

	out, err := c.messagingService.GetRoleResultMessage(ctx, &messaging.GetRoleResultMessageInput{
		Role:        messaging.MessageRole(role),
		TargetLabel: target,
		TargetName:  targetName,
		Variant:     messaging.Variant(variant),
	})
	if err != nil {
		return c.bot.respondServiceError(s, i, err)
	}

	// Deliver to the target's room when one is configured, else hand the
	// text back to the GM
	env, envErr := c.gameService.GetEnv(ctx, &game.GetEnvInput{GuildID: guildID})
	if envErr == nil {
		if channelID := env.Env.HOChannels[target]; channelID != "" {
			if _, sendErr := s.ChannelMessageSend(channelID, out.Message); sendErr == nil {
				return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Sent to %s's room: %s", target, out.Message))
			}
		}
	}

	return RespondWithEphemeralMessage(s, i, out.Message)
}

// handleSync rebuilds the participant list from the guild's player role
func (c *GMCommand) handleSync(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	env, err := c.gameService.GetEnv(ctx, &game.GetEnvInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting guild env: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}

	guildMembers, err := s.GuildMembers(guildID, "", 1000)
	if err != nil {
		log.Printf("Error listing guild members: %v", err)
		return RespondWithError(s, i, "Could not list guild members.")
	}

	var members []game.Member
	for _, m := range guildMembers {
		if m.User == nil || m.User.Bot {
			continue
		}
		if env.Env.PlayerRoleID != "" && !hasRole(m, env.Env.PlayerRoleID) {
			continue
		}
		id, err := strconv.ParseInt(m.User.ID, 10, 64)
		if err != nil {
			continue
		}
		name := m.User.Username
		if m.Nick != "" {
			name = m.Nick
		}
		members = append(members, game.Member{ID: id, Name: name})
	}

	out, err := c.gameService.SyncParticipants(ctx, &game.SyncParticipantsInput{
		GuildID: guildID,
		Members: members,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error syncing participants: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}

	c.bot.updateEntryPanel(s, guildID, i.ChannelID)

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Synced %d participants.", len(out.Participants)))
}

// handleLog shows the most recent GM actions
func (c *GMCommand) handleLog(s *discordgo.Session, i *discordgo.InteractionCreate, guildID string) error {
	ctx := context.Background()

	out, err := c.gameService.GetAuditLog(ctx, &game.GetAuditLogInput{
		GuildID: guildID,
		Limit:   10,
	})
	if err != nil {
		log.Printf("Error getting audit log: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}

	if len(out.Entries) == 0 {
		return RespondWithEphemeralMessage(s, i, "No GM actions recorded yet.")
	}

	lines := make([]string, 0, len(out.Entries))
	for _, e := range out.Entries {
		actor := e.Actor
		if actor == "" {
			actor = "-"
		}
		lines = append(lines, fmt.Sprintf("`%s` **%s** %s", e.At.Format("15:04:05"), actor, e.Action))
	}

	return RespondWithEphemeralMessage(s, i, strings.Join(lines, "\n"))
}

// handleReset wipes this guild's game state
func (c *GMCommand) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	_, err := c.gameService.ResetGuild(ctx, &game.ResetGuildInput{
		GuildID: guildID,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error resetting guild: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}

	return RespondWithMessage(s, i, "Game state wiped. Run `/gm entry` to start a new game.")
}

// hasRole reports whether a member carries the given role id
func hasRole(m *discordgo.Member, roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}
