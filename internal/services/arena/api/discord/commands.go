package discord

import "github.com/bwmarrin/discordgo"

const (
	commandInvite  = "invite"
	commandAccept  = "accept"
	commandDecline = "decline"
	commandCancel  = "cancel"
	commandPass    = "pass"
	commandEnd     = "end"
	commandChannel = "channel"
)

const (
	operationAdd    = "add"
	operationRemove = "remove"
)

var adminOnly = int64(discordgo.PermissionAdministrator)

// Commands returns the slash command set to register with Discord.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandInvite,
			Description: "Invite a player to a game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The player to invite",
					Required:    true,
				},
			},
		},
		{
			Name:        commandAccept,
			Description: "Accept your pending game invite",
		},
		{
			Name:        commandDecline,
			Description: "Decline your pending game invite",
		},
		{
			Name:        commandCancel,
			Description: "Withdraw the invite you sent",
		},
		{
			Name:        commandPass,
			Description: "Pass the turn to your opponent",
		},
		{
			Name:        commandEnd,
			Description: "End your current game",
		},
		{
			Name:                     commandChannel,
			Description:              "Manage the channel game commands are locked to",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "operation",
					Description: "Add or remove the channel restriction",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: operationAdd, Value: operationAdd},
						{Name: operationRemove, Value: operationRemove},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "The channel to lock game commands to",
				},
			},
		},
	}
}
