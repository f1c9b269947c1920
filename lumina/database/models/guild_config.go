package models

import (
	"slices"
	"time"

	"github.com/uptrace/bun"
)

// GuildConfig holds per-guild feature toggles and channel/role bindings.
// Missing configs read as DefaultGuildConfig; a row is only written on the
// first explicit update.
type GuildConfig struct {
	bun.BaseModel `bun:"table:guild_configs,alias:gc"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull,unique"`

	LevelUpMessages      bool `bun:"level_up_messages,notnull,default:true"`
	EconomyEnabled       bool `bun:"economy_enabled,notnull,default:true"`
	VoiceTrackingEnabled bool `bun:"voice_tracking_enabled,notnull,default:true"`
	DailyRewardEnabled   bool `bun:"daily_reward_enabled,notnull,default:true"`
	StreakBonus          bool `bun:"streak_bonus,notnull,default:true"`

	WelcomeChannelID string `bun:"welcome_channel_id"`
	LogChannelID     string `bun:"log_channel_id"`

	// At most one role per level.
	AutoRoles []AutoRole `bun:"auto_roles,type:jsonb"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type AutoRole struct {
	Level  int    `json:"level"`
	RoleID string `json:"role_id"`
}

func DefaultGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:              guildID,
		LevelUpMessages:      true,
		EconomyEnabled:       true,
		VoiceTrackingEnabled: true,
		DailyRewardEnabled:   true,
		StreakBonus:          true,
	}
}

// RoleForLevel returns the configured auto-role for an exact level, if any.
func (c *GuildConfig) RoleForLevel(level int) (string, bool) {
	for _, r := range c.AutoRoles {
		if r.Level == level {
			return r.RoleID, true
		}
	}
	return "", false
}

func (c *GuildConfig) Clone() *GuildConfig {
	cp := *c
	cp.AutoRoles = slices.Clone(c.AutoRoles)
	return &cp
}

// GuildConfigPatch is a partial config update; nil fields are left untouched.
type GuildConfigPatch struct {
	LevelUpMessages      *bool
	EconomyEnabled       *bool
	VoiceTrackingEnabled *bool
	DailyRewardEnabled   *bool
	StreakBonus          *bool
	WelcomeChannelID     *string
	LogChannelID         *string
	AutoRoles            []AutoRole
}

// Apply merges the patch into the config. Auto-roles replace any existing
// binding for the same level so a level can never map to two roles.
func (p GuildConfigPatch) Apply(c *GuildConfig, now time.Time) {
	if p.LevelUpMessages != nil {
		c.LevelUpMessages = *p.LevelUpMessages
	}
	if p.EconomyEnabled != nil {
		c.EconomyEnabled = *p.EconomyEnabled
	}
	if p.VoiceTrackingEnabled != nil {
		c.VoiceTrackingEnabled = *p.VoiceTrackingEnabled
	}
	if p.DailyRewardEnabled != nil {
		c.DailyRewardEnabled = *p.DailyRewardEnabled
	}
	if p.StreakBonus != nil {
		c.StreakBonus = *p.StreakBonus
	}
	if p.WelcomeChannelID != nil {
		c.WelcomeChannelID = *p.WelcomeChannelID
	}
	if p.LogChannelID != nil {
		c.LogChannelID = *p.LogChannelID
	}
	for _, ar := range p.AutoRoles {
		c.AutoRoles = slices.DeleteFunc(c.AutoRoles, func(existing AutoRole) bool {
			return existing.Level == ar.Level
		})
		if ar.RoleID != "" {
			c.AutoRoles = append(c.AutoRoles, ar)
		}
	}
	c.UpdatedAt = now
}
