package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
)

var metricChoices = []discord.ApplicationCommandOptionChoiceString{
	{Name: "Messages", Value: "messages"},
	{Name: "Voice Minutes", Value: "voice"},
	{Name: "XP", Value: "xp"},
	{Name: "Coins", Value: "coins"},
	{Name: "Level", Value: "level"},
}

var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "profile",
		Description: "📊 View a member's activity profile",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "member",
				Description: "Member to look up (defaults to you)",
				Required:    false,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "balance",
		Description: "💰 View your coins and level progress",
	},
	discord.SlashCommandCreate{
		Name:        "daily",
		Description: "🎁 Claim your daily reward and grow your streak",
	},
	discord.SlashCommandCreate{
		Name:        "work",
		Description: "💼 Work for some extra coins (8h cooldown)",
	},
	discord.SlashCommandCreate{
		Name:        "leaderboard",
		Description: "🏆 View the guild leaderboard",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "metric",
				Description: "What to rank by",
				Required:    false,
				Choices:     metricChoices,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "rank",
		Description: "🎖️ View your position on the leaderboard",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "metric",
				Description: "What to rank by",
				Required:    false,
				Choices:     metricChoices,
			},
			discord.ApplicationCommandOptionUser{
				Name:        "member",
				Description: "Member to look up (defaults to you)",
				Required:    false,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "stats",
		Description: "📈 View guild-wide activity statistics",
	},
	discord.SlashCommandCreate{
		Name:        "badges",
		Description: "🏅 View earned badges",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "member",
				Description: "Member to look up (defaults to you)",
				Required:    false,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "quests",
		Description: "📜 View your daily quests",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "filter",
				Description: "Which quests to show",
				Required:    false,
				Choices: []discord.ApplicationCommandOptionChoiceString{
					{Name: "Active", Value: "active"},
					{Name: "Completed", Value: "completed"},
					{Name: "All", Value: "all"},
				},
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "voice-stats",
		Description: "🎙️ View voice activity",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "member",
				Description: "Member to look up (defaults to you)",
				Required:    false,
			},
		},
	},
	discord.SlashCommandCreate{
		Name:                     "config",
		Description:              "⚙️ Configure the bot for this guild",
		DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "set-welcome-channel",
				Description: "Set the channel for welcome messages",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionChannel{
						Name:        "channel",
						Description: "Welcome channel",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "set-log-channel",
				Description: "Set the channel for level-up and quest notifications",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionChannel{
						Name:        "channel",
						Description: "Log channel",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "toggle-level-messages",
				Description: "Enable or disable level-up announcements",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionBool{
						Name:        "enabled",
						Description: "Whether to announce level-ups",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "set-auto-role",
				Description: "Bind a role to a level (empty role removes the binding)",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "level",
						Description: "Level that grants the role",
						Required:    true,
					},
					discord.ApplicationCommandOptionRole{
						Name:        "role",
						Description: "Role to grant",
						Required:    false,
					},
				},
			},
		},
	},
	discord.SlashCommandCreate{
		Name:                     "backup",
		Description:              "💾 Export this guild's data to object storage",
		DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	},
	discord.SlashCommandCreate{
		Name:        "version",
		Description: "ℹ️ Show bot version",
	},
}
