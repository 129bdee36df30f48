package discord

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/yamigumo/werewolf-gm/internal/models"
	"github.com/yamigumo/werewolf-gm/internal/services/game"
)

// Fixed artifact names, matching what GMs expect to see in the channel list
const (
	gmRoleName         = "GM"
	playerRoleName     = "Player"
	gmCategoryName     = "gm-only"
	controlChannelName = "gm-dashboard"
	logChannelName     = "gm-log"
	roomsCategoryName  = "player-rooms"
)

// handleSetup provisions the guild's GM environment: roles, the GM category
// with control and log channels, and one private room per assigned HO label.
// Everything already recorded in the env is left alone, so rerunning after a
// partial failure only fills the gaps.
func (c *GMCommand) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, username string) error {
	ctx := context.Background()

	envOut, err := c.gameService.GetEnv(ctx, &game.GetEnvInput{GuildID: guildID})
	if err != nil {
		log.Printf("Error getting guild env: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}
	env := envOut.Env

	var created []string

	if env.GMRoleID == "" {
		role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: gmRoleName})
		if err != nil {
			log.Printf("Error creating GM role: %v", err)
			return RespondWithError(s, i, "Could not create the GM role. Check the bot's permissions.")
		}
		env.GMRoleID = role.ID
		created = append(created, "GM role")
	}

	if env.PlayerRoleID == "" {
		role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: playerRoleName})
		if err != nil {
			log.Printf("Error creating player role: %v", err)
			return RespondWithError(s, i, "Could not create the player role. Check the bot's permissions.")
		}
		env.PlayerRoleID = role.ID
		created = append(created, "player role")
	}

	if env.GMCategoryID == "" {
		category, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name: gmCategoryName,
			Type: discordgo.ChannelTypeGuildCategory,
		})
		if err != nil {
			log.Printf("Error creating GM category: %v", err)
			return RespondWithError(s, i, "Could not create the GM category.")
		}
		env.GMCategoryID = category.ID
		created = append(created, "GM category")
	}

	if env.ControlChannelID == "" {
		ch, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     controlChannelName,
			Type:     discordgo.ChannelTypeGuildText,
			ParentID: env.GMCategoryID,
		})
		if err != nil {
			log.Printf("Error creating control channel: %v", err)
			return RespondWithError(s, i, "Could not create the control channel.")
		}
		env.ControlChannelID = ch.ID
		created = append(created, "control channel")
	}

	if env.LogChannelID == "" {
		ch, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     logChannelName,
			Type:     discordgo.ChannelTypeGuildText,
			ParentID: env.GMCategoryID,
		})
		if err != nil {
			log.Printf("Error creating log channel: %v", err)
			return RespondWithError(s, i, "Could not create the log channel.")
		}
		env.LogChannelID = ch.ID
		created = append(created, "log channel")
	}

	// Private rooms only exist once the roster is frozen
	rooms, err := c.ensureRooms(s, guildID, &env)
	if err != nil {
		log.Printf("Error creating player rooms: %v", err)
		return RespondWithError(s, i, "Could not create the player rooms.")
	}
	if rooms > 0 {
		created = append(created, fmt.Sprintf("%d player rooms", rooms))
	}

	if _, err := c.gameService.SetEnv(ctx, &game.SetEnvInput{GuildID: guildID, Env: env}); err != nil {
		log.Printf("Error saving guild env: %v", err)
		return c.bot.respondServiceError(s, i, err)
	}

	if len(created) == 0 {
		return RespondWithEphemeralMessage(s, i, "Environment already set up; nothing to do.")
	}
	return RespondWithEphemeralMessage(s, i, "Set up: "+strings.Join(created, ", ")+".")
}

// ensureRooms creates a role and private channel per assigned HO label and
// grants each player their own role. Returns how many rooms were created.
func (c *GMCommand) ensureRooms(s *discordgo.Session, guildID string, env *models.GuildEnv) (int, error) {
	ctx := context.Background()

	parts, err := c.gameService.GetParticipants(ctx, &game.GetParticipantsInput{GuildID: guildID})
	if err != nil {
		return 0, err
	}

	needed := false
	for _, p := range parts.Participants {
		if p.HO != "" && env.HOChannels[p.HO] == "" {
			needed = true
			break
		}
	}
	if !needed {
		return 0, nil
	}

	if env.HOCategoryID == "" {
		category, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name: roomsCategoryName,
			Type: discordgo.ChannelTypeGuildCategory,
		})
		if err != nil {
			return 0, err
		}
		env.HOCategoryID = category.ID
	}
	if env.HORoles == nil {
		env.HORoles = map[string]string{}
	}
	if env.HOChannels == nil {
		env.HOChannels = map[string]string{}
	}

	created := 0
	for _, p := range parts.Participants {
		if p.HO == "" || env.HOChannels[p.HO] != "" {
			continue
		}

		if env.HORoles[p.HO] == "" {
			role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: p.HO})
			if err != nil {
				return created, err
			}
			env.HORoles[p.HO] = role.ID
		}

		if err := s.GuildMemberRoleAdd(guildID, strconv.FormatInt(p.ID, 10), env.HORoles[p.HO]); err != nil {
			// The member may have left; the room is still worth creating
			log.Printf("Could not grant %s role to %s: %v", p.HO, p.Name, err)
		}

		ch, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     strings.ToLower(p.HO),
			Type:     discordgo.ChannelTypeGuildText,
			ParentID: env.HOCategoryID,
		})
		if err != nil {
			return created, err
		}
		env.HOChannels[p.HO] = ch.ID
		created++
	}

	return created, nil
}
