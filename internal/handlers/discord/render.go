package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/yamigumo/werewolf-gm/internal/models"
	"github.com/yamigumo/werewolf-gm/internal/services/game"
)

// renderEntryEmbed renders the participant list for the entry panel
func renderEntryEmbed(participants []*models.Participant) *discordgo.MessageEmbed {
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.HO != "" {
			names = append(names, fmt.Sprintf("%s %s", p.HO, p.Name))
		} else {
			names = append(names, p.Name)
		}
	}

	value := "(no one has entered yet)"
	if len(names) > 0 {
		value = strings.Join(names, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Entry",
		Description: "Click Enter to join the game. The GM closes entry when everyone is in.",
		Color:       0x5865f2, // Blurple
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Members",
				Value:  value,
				Inline: false,
			},
		},
	}
}

// entryButtons returns the Enter/Leave row for the entry panel
func entryButtons() []discordgo.MessageComponent {
	enterButton := discordgo.Button{
		Label:    "Enter",
		Style:    discordgo.SuccessButton,
		CustomID: ButtonEnterGame,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🐺",
		},
	}

	leaveButton := discordgo.Button{
		Label:    "Leave",
		Style:    discordgo.SecondaryButton,
		CustomID: ButtonLeaveGame,
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{enterButton, leaveButton},
		},
	}
}

// renderDashboardEmbed renders the GM dashboard from a state snapshot
func renderDashboardEmbed(dash *game.GetDashboardOutput) *discordgo.MessageEmbed {
	phase := "Day"
	if dash.Phase == models.PhaseNight {
		phase = "Night"
	}

	voting := "closed"
	if dash.VotingOpen {
		voting = "open"
	}

	reverse := "available"
	if dash.ReverseUsed {
		reverse = "used"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Day",
			Value:  fmt.Sprintf("%d", dash.Day),
			Inline: true,
		},
		{
			Name:   "Phase",
			Value:  phase,
			Inline: true,
		},
		{
			Name:   "Voting",
			Value:  voting,
			Inline: true,
		},
		{
			Name:   "Spirit reverse",
			Value:  reverse,
			Inline: true,
		},
	}

	roster := ""
	for _, p := range dash.Participants {
		if p.HO != "" {
			roster += fmt.Sprintf("**%s**: %s\n", p.HO, p.Name)
		} else {
			roster += p.Name + "\n"
		}
	}
	if roster != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Participants",
			Value:  roster,
			Inline: false,
		})
	}

	if len(dash.NightActions) > 0 {
		actions := ""
		for _, ability := range models.Abilities {
			for actor, target := range dash.NightActions[ability] {
				actions += fmt.Sprintf("**%s** %s → %s\n", ability, actor, target)
			}
		}
		if actions != "" {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   "Night actions",
				Value:  actions,
				Inline: false,
			})
		}
	}

	description := "Entry is open; close it to freeze the roster."
	if dash.Frozen {
		description = "Roster is frozen. Use the buttons below to run the phases."
	}

	return &discordgo.MessageEmbed{
		Title:       "GM Dashboard",
		Description: description,
		Color:       0x5865f2, // Blurple
		Fields:      fields,
	}
}

// dashboardButtons returns the phase control row for the GM dashboard
func dashboardButtons() []discordgo.MessageComponent {
	dayButton := discordgo.Button{
		Label:    "Next Day",
		Style:    discordgo.PrimaryButton,
		CustomID: ButtonAdvanceDay,
		Emoji: &discordgo.ComponentEmoji{
			Name: "☀️",
		},
	}

	nightButton := discordgo.Button{
		Label:    "Night",
		Style:    discordgo.SecondaryButton,
		CustomID: ButtonEnterNight,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🌙",
		},
	}

	closeVoteButton := discordgo.Button{
		Label:    "Close Voting",
		Style:    discordgo.DangerButton,
		CustomID: ButtonCloseVoting,
	}

	reverseButton := discordgo.Button{
		Label:    "Spirit Reverse",
		Style:    discordgo.SecondaryButton,
		CustomID: ButtonSpiritReverse,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🔮",
		},
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{dayButton, nightButton, closeVoteButton, reverseButton},
		},
	}
}

// renderTallyText renders the vote tally as plain text for the tally panel
func renderTallyText(tally *game.GetTallyOutput) string {
	lines := []string{"🗳️ Night votes"}
	for _, row := range tally.Rows {
		if row.Target == "" {
			lines = append(lines, fmt.Sprintf("%s → not voted", row.Voter))
		} else if row.TargetName != "" {
			lines = append(lines, fmt.Sprintf("%s → %s (%s)", row.Voter, row.Target, row.TargetName))
		} else {
			lines = append(lines, fmt.Sprintf("%s → %s", row.Voter, row.Target))
		}
	}
	if !tally.VotingOpen {
		lines = append(lines, "", "Voting is closed.")
	}
	return strings.Join(lines, "\n")
}

// voteSelect builds the target select menu for one voter. The voter's own
// label is excluded from the options.
func voteSelect(voterLabel string, participants []*models.Participant) discordgo.SelectMenu {
	var options []discordgo.SelectMenuOption
	for _, p := range participants {
		if p.HO == "" || p.HO == voterLabel {
			continue
		}
		options = append(options, discordgo.SelectMenuOption{
			Label: fmt.Sprintf("%s %s", p.HO, p.Name),
			Value: p.HO,
		})
	}
	if len(options) == 0 {
		options = []discordgo.SelectMenuOption{
			{Label: "No candidates", Value: "none"},
		}
	}

	return discordgo.SelectMenu{
		CustomID:    fmt.Sprintf("%s:%s", SelectVotePrefix, voterLabel),
		Placeholder: "Pick who to vote for",
		Options:     options,
	}
}
