package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/chalwk/versus/internal/services/arena/domain"
)

const (
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
	colorBlue  = 0x3498DB
)

func mention(player domain.UserID) string {
	return fmt.Sprintf("<@%s>", player)
}

func inviteEmbed(invite domain.Invite) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Game Invite",
		Description: fmt.Sprintf("%s has invited %s to play!", mention(invite.Inviter), mention(invite.Invitee)),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Type /accept to join or /decline to pass.",
		},
		Color: colorGreen,
	}
}

func sessionEmbed(session *domain.Session) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Game On",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Players",
				Value:  fmt.Sprintf("%s VS %s", mention(session.PlayerA()), mention(session.PlayerB())),
				Inline: true,
			},
			{
				Name:  "Turn",
				Value: mention(session.CurrentTurn()),
			},
			{
				Name:   "Time limit",
				Value:  session.TimeLimit().Round(time.Second).String(),
				Inline: true,
			},
		},
		Color: colorBlue,
	}
}

func declineEmbed(invite domain.Invite) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Game Invite Declined",
		Description: fmt.Sprintf("%s has declined the invite from %s!", mention(invite.Invitee), mention(invite.Inviter)),
		Color:       colorRed,
	}
}

func cancelEmbed(invite domain.Invite) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Game Invite Canceled",
		Description: fmt.Sprintf("%s has withdrawn the invite to %s.", mention(invite.Inviter), mention(invite.Invitee)),
		Color:       colorRed,
	}
}

func turnEmbed(session *domain.Session) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Turn Passed",
		Description: fmt.Sprintf("It is now %s's turn.", mention(session.CurrentTurn())),
		Color:       colorBlue,
	}
}

func endEmbed(session *domain.Session, endedBy domain.UserID) *discordgo.MessageEmbed {
	description := fmt.Sprintf("The game between %s and %s has ended!",
		mention(session.PlayerA()), mention(session.PlayerB()))
	embed := &discordgo.MessageEmbed{
		Title:       "Game Over!",
		Description: description,
		Color:       colorBlue,
	}
	if endedBy != "" {
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:   "Ended by",
			Value:  mention(endedBy),
			Inline: true,
		}}
	}
	return embed
}

func timeoutMessage(session *domain.Session) string {
	return fmt.Sprintf("Times up! Game between %s and %s has ended!",
		mention(session.PlayerA()), mention(session.PlayerB()))
}
