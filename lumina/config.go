package lumina

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/luminabot/lumina/lumina/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Bot     BotConfig         `toml:"bot"`
	Storage StorageConfig     `toml:"storage"`
	DB      database.DBConfig `toml:"db"`
	Spaces  SpacesConfig      `toml:"spaces"`
	Web     WebConfig         `toml:"web"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

// StorageConfig selects the member/quest/config store backend: "postgres"
// for production, "memory" for running without a database.
type StorageConfig struct {
	Backend string `toml:"backend"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
}

type WebConfig struct {
	Addr string `toml:"addr"`
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "", "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is not set")
	}
	return nil
}

// BackupEnabled reports whether Spaces credentials are configured.
func (c *Config) BackupEnabled() bool {
	return c.Spaces.Key != "" && c.Spaces.Secret != "" && c.Spaces.Bucket != ""
}
