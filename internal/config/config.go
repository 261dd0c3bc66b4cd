package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/models"
	"github.com/KirkDiggler/czar/internal/services/game"
)

// Config is the process configuration of the bot and the console driver
type Config struct {
	Discord  Discord
	Redis    Redis
	DecksDir string
	LogLevel logrus.Level
	Rules    game.Rules

	// LeaderboardSize is how many players the leaderboard command lists
	LeaderboardSize int
}

// Discord holds the bot credentials
type Discord struct {
	Token         string
	ApplicationID string

	// GuildID registers commands in one guild only, for development
	GuildID string

	// PlayerRoleID is the role given to players while they are in a game
	PlayerRoleID string
}

// Redis holds the connection settings for the results store
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Load reads the configuration from the environment. Values in envFile are
// used for variables the environment does not set; a missing file is not
// an error.
func Load(envFile string) (*Config, error) {
	fileEnv := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		if values != nil {
			fileEnv = values
		}
	}

	return parse(func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fileEnv[key]
	})
}

type parser struct {
	lookup func(key string) string
	errs   []error
}

func parse(lookup func(key string) string) (*Config, error) {
	p := &parser{lookup: lookup}
	defaults := game.DefaultRules()

	cfg := &Config{
		Discord: Discord{
			Token:         p.getString("DISCORD_TOKEN", ""),
			ApplicationID: p.getString("APPLICATION_ID", ""),
			GuildID:       p.getString("GUILD_ID", ""),
			PlayerRoleID:  p.getString("PLAYER_ROLE_ID", ""),
		},
		Redis: Redis{
			Addr:     p.getString("REDIS_ADDR", "localhost:6379"),
			Password: p.getString("REDIS_PASSWORD", ""),
			DB:       p.getInt("REDIS_DB", 0),
		},
		DecksDir:        p.getString("DECKS_DIR", "decks"),
		LogLevel:        p.getLevel("LOG_LEVEL", logrus.InfoLevel),
		LeaderboardSize: p.getInt("LEADERBOARD_SIZE", 10),
		Rules: game.Rules{
			Mode:                  models.WinMode(strings.ToLower(p.getString("CZAR_WIN_MODE", string(defaults.Mode)))),
			TimeLimit:             p.getDuration("CZAR_TIME_LIMIT", defaults.TimeLimit),
			TimeBetweenRounds:     p.getDuration("CZAR_TIME_BETWEEN_ROUNDS", defaults.TimeBetweenRounds),
			TimeWaitForPlayers:    p.getDuration("CZAR_TIME_WAIT_FOR_PLAYERS", defaults.TimeWaitForPlayers),
			CoolOff:               p.getDuration("CZAR_COOL_OFF", defaults.CoolOff),
			MaxIdleRounds:         p.getInt("CZAR_MAX_IDLE_ROUNDS", defaults.MaxIdleRounds),
			HandSize:              p.getInt("CZAR_HAND_SIZE", defaults.HandSize),
			MinPlayers:            p.getInt("CZAR_MIN_PLAYERS", defaults.MinPlayers),
			FirstRoundMinPlayers:  p.getInt("CZAR_FIRST_ROUND_MIN_PLAYERS", defaults.FirstRoundMinPlayers),
			MaxCoinUses:           p.getInt("CZAR_MAX_COIN_USES", defaults.MaxCoinUses),
			PointLimit:            p.getInt("CZAR_POINT_LIMIT", defaults.PointLimit),
			StopOnLastPlayerLeave: p.getBool("CZAR_STOP_ON_LAST_PLAYER_LEAVE", defaults.StopOnLastPlayerLeave),
			WaitFromLastJoin:      p.getBool("CZAR_WAIT_FROM_LAST_JOIN", defaults.WaitFromLastJoin),
			VoicePlayers:          p.getBool("CZAR_VOICE_PLAYERS", defaults.VoicePlayers),
		},
	}

	if mode := cfg.Rules.Mode; mode != models.WinModeJudge && mode != models.WinModeVote {
		p.errs = append(p.errs, fmt.Errorf("CZAR_WIN_MODE: unknown win mode %q", mode))
	}
	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return cfg, nil
}

func (p *parser) getString(key, fallback string) string {
	if value := strings.TrimSpace(p.lookup(key)); value != "" {
		return value
	}
	return fallback
}

func (p *parser) getInt(key string, fallback int) int {
	value := p.getString(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (p *parser) getBool(key string, fallback bool) bool {
	value := p.getString(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

// getDuration accepts Go durations ("90s") or a plain number of seconds
func (p *parser) getDuration(key string, fallback time.Duration) time.Duration {
	value := p.getString(key, "")
	if value == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (p *parser) getLevel(key string, fallback logrus.Level) logrus.Level {
	value := p.getString(key, "")
	if value == "" {
		return fallback
	}
	level, err := logrus.ParseLevel(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return level
}
