package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/yamigumo/werewolf-gm/internal/models"
	"github.com/yamigumo/werewolf-gm/internal/services/game"
	"github.com/yamigumo/werewolf-gm/internal/services/messaging"
)

// Bot represents the Discord bot instance
type Bot struct {
	session          *discordgo.Session
	commands         map[string]CommandHandler
	commandIDs       map[string]string // Maps command name to command ID
	gameService      game.Service
	messagingService messaging.Service
	config           *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Game service
	GameService game.Service

	// Messaging service
	MessagingService messaging.Service
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:          session,
		commands:         make(map[string]CommandHandler),
		commandIDs:       make(map[string]string),
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		config:           cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register the gm command
	gmCmd := NewGMCommand(b, b.gameService, b.messagingService)
	if err := b.RegisterCommand(gmCmd); err != nil {
		return fmt.Errorf("failed to register gm command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	// Remove all commands
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		} else {
			log.Printf("Successfully deleted command %s (ID: %s)", cmdName, cmdID)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild
	// Otherwise, register it globally
	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	// Store the command handler and its ID
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// Component custom IDs
const (
	ButtonEnterGame     = "enter_game"
	ButtonLeaveGame     = "leave_game"
	ButtonAdvanceDay    = "gm_advance_day"
	ButtonEnterNight    = "gm_enter_night"
	ButtonCloseVoting   = "gm_close_voting"
	ButtonSpiritReverse = "gm_spirit_reverse"

	// SelectVotePrefix prefixes vote selects; the voter label rides in the
	// custom ID after a colon
	SelectVotePrefix = "vote_target"
)

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// Handle slash commands
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		// Handle buttons and selects
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks and select menus
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	guildID := i.GuildID
	userID := i.Member.User.ID
	username := i.Member.User.Username
	if i.Member.Nick != "" {
		username = i.Member.Nick
	}

	if voterLabel, ok := strings.CutPrefix(customID, SelectVotePrefix+":"); ok {
		return b.handleVoteSelect(s, i, guildID, voterLabel)
	}

	switch customID {
	case ButtonEnterGame:
		return b.handleEnterGameButton(s, i, guildID, userID, username)
	case ButtonLeaveGame:
		return b.handleLeaveGameButton(s, i, guildID, userID, username)
	case ButtonAdvanceDay:
		return b.handleAdvanceDayButton(s, i, guildID, username)
	case ButtonEnterNight:
		return b.handleEnterNightButton(s, i, guildID, username)
	case ButtonCloseVoting:
		return b.handleCloseVotingButton(s, i, guildID, username)
	case ButtonSpiritReverse:
		return b.handleSpiritReverseButton(s, i, guildID, username)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown component: %s", customID))
	}
}

// handleEnterGameButton handles the entry panel Enter button
func (b *Bot) handleEnterGameButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID, username string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return RespondWithError(s, i, "Could not read your user id.")
	}

	out, err := b.gameService.AddParticipant(ctx, &game.AddParticipantInput{
		GuildID: guildID,
		UserID:  id,
		Name:    username,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error adding participant: %v", err)
		return b.respondServiceError(s, i, err)
	}

	b.updateEntryPanel(s, guildID, i.ChannelID)

	if out.AlreadyRegistered {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("You're already in as %s.", out.Participant.Name))
	}
	return RespondWithEphemeralMessage(s, i, "You're in! Wait for the GM to close entry.")
}

// handleLeaveGameButton handles the entry panel Leave button
func (b *Bot) handleLeaveGameButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID, username string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return RespondWithError(s, i, "Could not read your user id.")
	}

	out, err := b.gameService.RemoveParticipant(ctx, &game.RemoveParticipantInput{
		GuildID: guildID,
		UserID:  id,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error removing participant: %v", err)
		return b.respondServiceError(s, i, err)
	}

	b.updateEntryPanel(s, guildID, i.ChannelID)

	if !out.Removed {
		return RespondWithEphemeralMessage(s, i, "You weren't entered.")
	}
	return RespondWithEphemeralMessage(s, i, "You've left the game.")
}

// handleAdvanceDayButton handles the dashboard Next Day button
func (b *Bot) handleAdvanceDayButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	out, err := b.gameService.AdvanceDay(ctx, &game.AdvanceDayInput{
		GuildID: guildID,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error advancing day: %v", err)
		return b.respondServiceError(s, i, err)
	}

	announcement, err := b.messagingService.GetPhaseAnnouncement(ctx, &messaging.GetPhaseAnnouncementInput{
		Phase: models.PhaseDay,
		Day:   out.Day,
	})
	if err != nil {
		log.Printf("Error building announcement: %v", err)
		return err
	}

	b.updateDashboardPanel(s, guildID, i.ChannelID)

	return RespondWithMessage(s, i, announcement.Message)
}

// handleEnterNightButton handles the dashboard Night button
func (b *Bot) handleEnterNightButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	out, err := b.gameService.EnterNight(ctx, &game.EnterNightInput{
		GuildID: guildID,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error entering night: %v", err)
		return b.respondServiceError(s, i, err)
	}

	sent := b.sendVoteMenus(s, guildID)
	b.updateDashboardPanel(s, guildID, i.ChannelID)
	b.updateTallyPanel(s, guildID, i.ChannelID)

	announcement, err := b.messagingService.GetPhaseAnnouncement(ctx, &messaging.GetPhaseAnnouncementInput{
		Phase: models.PhaseNight,
		Day:   out.Day,
	})
	if err != nil {
		log.Printf("Error building announcement: %v", err)
		return err
	}

	msg := announcement.Message
	if sent > 0 {
		msg += fmt.Sprintf("\nVote menus delivered to %d of %d rooms.", sent, len(out.Labels))
	}
	return RespondWithMessage(s, i, msg)
}

// handleCloseVotingButton handles the dashboard Close Voting button
func (b *Bot) handleCloseVotingButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	_, err := b.gameService.CloseVoting(ctx, &game.CloseVotingInput{
		GuildID: guildID,
		Actor:   username,
	})
	if err != nil {
		log.Printf("Error closing voting: %v", err)
		return b.respondServiceError(s, i, err)
	}

	b.updateTallyPanel(s, guildID, i.ChannelID)
	b.updateDashboardPanel(s, guildID, i.ChannelID)

	tally, err := b.gameService.GetTally(ctx, &game.GetTallyInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting tally: %v", err)
		return b.respondServiceError(s, i, err)
	}

	return RespondWithMessage(s, i, renderTallyText(tally))
}

// handleSpiritReverseButton handles the dashboard Spirit Reverse button
func (b *Bot) handleSpiritReverseButton(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	_, err := b.gameService.UseSpiritReverse(ctx, &game.UseSpiritReverseInput{
		GuildID: guildID,
		Actor:   username,
	})
	if err != nil {
		return b.respondServiceError(s, i, err)
	}

	b.updateDashboardPanel(s, guildID, i.ChannelID)

	return RespondWithMessage(s, i, "🔮 The spirit reverse has been invoked!")
}

// handleVoteSelect handles a target pick from a vote select menu
func (b *Bot) handleVoteSelect(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, voterLabel string) error {
	ctx := context.Background()

	var target string
	if values := i.MessageComponentData().Values; len(values) > 0 {
		target = values[0]
	}
	if target == "" || target == "none" {
		return RespondWithEphemeralMessage(s, i, "Pick a target first.")
	}

	_, err := b.gameService.SubmitVote(ctx, &game.SubmitVoteInput{
		GuildID:     guildID,
		VoterLabel:  voterLabel,
		TargetLabel: target,
	})
	if err != nil {
		return b.respondServiceError(s, i, err)
	}

	// Keep the GM tally panel current; the panel lives in the GM control
	// channel when one is configured
	tallyChannel := i.ChannelID
	if env, envErr := b.gameService.GetEnv(ctx, &game.GetEnvInput{GuildID: guildID}); envErr == nil && env.Env.ControlChannelID != "" {
		tallyChannel = env.Env.ControlChannelID
	}
	b.updateTallyPanel(s, guildID, tallyChannel)

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("✅ Vote recorded: %s → %s", voterLabel, target))
}

// sendVoteMenus delivers a vote select to each player room configured in the
// guild env. Rooms without a mapping are skipped.
func (b *Bot) sendVoteMenus(s *discordgo.Session, guildID string) int {
	ctx := context.Background()

	env, err := b.gameService.GetEnv(ctx, &game.GetEnvInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting guild env: %v", err)
		return 0
	}

	parts, err := b.gameService.GetParticipants(ctx, &game.GetParticipantsInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting participants: %v", err)
		return 0
	}

	sent := 0
	for _, p := range parts.Participants {
		if p.HO == "" {
			continue
		}
		channelID := env.Env.HOChannels[p.HO]
		if channelID == "" {
			continue
		}

		menu := voteSelect(p.HO, parts.Participants)
		_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: "🌙 Night has fallen. Cast your vote.",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{menu},
				},
			},
		})
		if err != nil {
			log.Printf("Error sending vote menu to %s: %v", p.HO, err)
			continue
		}
		sent++
	}

	return sent
}

// respondServiceError translates a service error into a user-facing
// ephemeral message
func (b *Bot) respondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	out, msgErr := b.messagingService.GetErrorMessage(context.Background(), &messaging.GetErrorMessageInput{Err: err})
	if msgErr != nil {
		return RespondWithError(s, i, err.Error())
	}
	return RespondWithEphemeralMessage(s, i, out.Message)
}

// upsertPanel edits the remembered panel message when possible, else sends a
// fresh one and remembers it
func (b *Bot) upsertPanel(s *discordgo.Session, guildID, channelID string, kind models.PanelKind, content string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	ctx := context.Background()

	var embeds []*discordgo.MessageEmbed
	if embed != nil {
		embeds = []*discordgo.MessageEmbed{embed}
	}

	ref, err := b.gameService.GetPanelRef(ctx, &game.GetPanelRefInput{
		GuildID: guildID,
		Kind:    kind,
	})
	if err != nil {
		log.Printf("Error getting panel ref: %v", err)
		return
	}

	if ref.MessageID != "" {
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    channelID,
			ID:         ref.MessageID,
			Content:    &content,
			Embeds:     &embeds,
			Components: &components,
		})
		if err == nil {
			return
		}
		// The remembered message is gone; fall through and post a new one
		log.Printf("Panel %s edit failed, reposting: %v", kind, err)
	}

	msg, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Embeds:     embeds,
		Components: components,
	})
	if err != nil {
		log.Printf("Error sending panel %s: %v", kind, err)
		return
	}

	if _, err := b.gameService.SetPanelRef(ctx, &game.SetPanelRefInput{
		GuildID:   guildID,
		Kind:      kind,
		MessageID: msg.ID,
	}); err != nil {
		log.Printf("Error remembering panel %s message: %v", kind, err)
	}
}

// updateEntryPanel refreshes the entry panel from current state
func (b *Bot) updateEntryPanel(s *discordgo.Session, guildID, channelID string) {
	ctx := context.Background()

	parts, err := b.gameService.GetParticipants(ctx, &game.GetParticipantsInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting participants for entry panel: %v", err)
		return
	}

	b.upsertPanel(s, guildID, channelID, models.PanelEntry, "🧩 Entry panel", renderEntryEmbed(parts.Participants), entryButtons())
}

// updateDashboardPanel refreshes the GM dashboard from current state
func (b *Bot) updateDashboardPanel(s *discordgo.Session, guildID, channelID string) {
	ctx := context.Background()

	dash, err := b.gameService.GetDashboard(ctx, &game.GetDashboardInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting dashboard: %v", err)
		return
	}

	b.upsertPanel(s, guildID, channelID, models.PanelDashboard, "", renderDashboardEmbed(dash), dashboardButtons())
}

// updateTallyPanel refreshes the tally panel from current state
func (b *Bot) updateTallyPanel(s *discordgo.Session, guildID, channelID string) {
	ctx := context.Background()

	tally, err := b.gameService.GetTally(ctx, &game.GetTallyInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting tally: %v", err)
		return
	}

	b.upsertPanel(s, guildID, channelID, models.PanelTally, renderTallyText(tally), nil, nil)
}
