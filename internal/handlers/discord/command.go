package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/czar/internal/handlers/commands"
	"github.com/KirkDiggler/czar/internal/models"
)

// CommandName is the name of the slash command every action hangs off
const CommandName = "czar"

// applicationCommand builds the /czar command with one subcommand per action
func applicationCommand() *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(commands.Actions))
	for _, action := range commands.Actions {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        string(action),
			Description: action.Description(),
			Options:     actionOptions(action),
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        CommandName,
		Description: "A party game for horrible people",
		Options:     options,
	}
}

func actionOptions(action commands.Action) []*discordgo.ApplicationCommandOption {
	switch action {
	case commands.ActionStart:
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "How winners are chosen",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Card Czar", Value: string(models.WinModeJudge)},
					{Name: "Vote", Value: string(models.WinModeVote)},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "points",
				Description: "Points needed to win",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "decks",
				Description: "Deck codes or ~groups, separated by spaces",
			},
		}
	case commands.ActionPick:
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "cards",
				Description: "Card or entry numbers, separated by spaces",
				Required:    true,
			},
		}
	case commands.ActionCoin:
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "heads",
				Description: "Pick on heads",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "tails",
				Description: "Pick on tails",
				Required:    true,
			},
		}
	case commands.ActionKick:
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "player",
				Description: "Player to remove",
				Required:    true,
			},
		}
	case commands.ActionNick:
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Your new name",
				Required:    true,
			},
		}
	default:
		return nil
	}
}

// commandFromInteraction turns a /czar subcommand into a player command
func commandFromInteraction(data discordgo.ApplicationCommandInteractionData, channelID, guildID string, member *discordgo.Member) (*commands.Command, error) {
	if member == nil || member.User == nil {
		return nil, errors.New("command must be used in a server channel")
	}
	if len(data.Options) == 0 {
		return nil, errors.New("missing subcommand")
	}

	sub := data.Options[0]
	action, err := commands.ParseAction(sub.Name)
	if err != nil {
		return nil, err
	}

	cmd := &commands.Command{
		Action:    action,
		ChannelID: channelID,
		Actor:     memberIdentity(member, guildID),
	}

	for _, opt := range sub.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			cmd.Args = append(cmd.Args, strings.Fields(opt.StringValue())...)
		case discordgo.ApplicationCommandOptionInteger:
			cmd.Args = append(cmd.Args, strconv.FormatInt(opt.IntValue(), 10))
		case discordgo.ApplicationCommandOptionUser:
			userID, _ := opt.Value.(string)
			target := resolvedIdentity(data.Resolved, userID, guildID)
			cmd.Target = &target
		}
	}

	return cmd, nil
}

// memberIdentity keys a guild member by user ID; the display name is only the nick
func memberIdentity(member *discordgo.Member, guildID string) models.Identity {
	return models.Identity{
		Nick: displayName(member.Nick, member.User),
		User: member.User.ID,
		Host: guildID,
	}
}

func resolvedIdentity(resolved *discordgo.ApplicationCommandInteractionDataResolved, userID, guildID string) models.Identity {
	identity := models.Identity{Nick: userID, User: userID, Host: guildID}
	if resolved == nil {
		return identity
	}
	user := resolved.Users[userID]
	nick := ""
	if member, ok := resolved.Members[userID]; ok && member != nil {
		nick = member.Nick
	}
	if user != nil || nick != "" {
		identity.Nick = displayName(nick, user)
	}
	return identity
}

func displayName(nick string, user *discordgo.User) string {
	switch {
	case nick != "":
		return nick
	case user == nil:
		return ""
	case user.GlobalName != "":
		return user.GlobalName
	default:
		return user.Username
	}
}

// RespondWithMessage sends a simple text message response to an interaction
func RespondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, message string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Content: message,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// RespondWithEmbed sends an embed response to an interaction
func RespondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, title, description string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       title,
				Description: description,
				Color:       0x000000,
			},
		},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// RespondWithError sends an error response only the player can see
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: fmt.Sprintf("%v", err),
					Color:       0xff0000, // Red color
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}
