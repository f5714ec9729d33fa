// Package config loads the YAML settings for a play session.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seiyria/qivan/engine/content"
	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/types"
)

// Config holds everything needed to start a session.
type Config struct {
	ContentDir        string        `yaml:"content_dir"`
	Seed              int64         `yaml:"seed"`
	EscapeDelay       time.Duration `yaml:"escape_delay"`
	BasicAttackEnergy int           `yaml:"basic_attack_energy"`
	LogLevel          string        `yaml:"log_level"`

	Player PlayerConfig `yaml:"player"`
}

// PlayerConfig describes the player character and its active item slots.
type PlayerConfig struct {
	Name      string             `yaml:"name"`
	Health    int                `yaml:"health"`
	Energy    int                `yaml:"energy"`
	Stats     map[types.Stat]int `yaml:"stats"`
	Abilities []string           `yaml:"abilities"`
	Items     []ItemSlot         `yaml:"items"`
}

// ItemSlot puts a content item in an active slot. Uses overrides the
// item's default when positive.
type ItemSlot struct {
	Name string `yaml:"name"`
	Uses int    `yaml:"uses"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		ContentDir:        "content/core",
		EscapeDelay:       3 * time.Second,
		BasicAttackEnergy: 3,
		LogLevel:          "warn",
		Player: PlayerConfig{
			Name:   "Hero",
			Health: 100,
			Energy: 20,
			Stats: map[types.Stat]int{
				types.StatPower:   8,
				types.StatForce:   5,
				types.StatArmor:   2,
				types.StatHealing: 2,
			},
			Abilities: []string{"Attack", "Heavy Strike", "Fireball", "Mend", "Battle Cry"},
			Items: []ItemSlot{
				{Name: "Healing Potion"},
				{Name: "Venom Flask"},
				{Name: "Smoke Pellet"},
			},
		},
	}
}

// Load loads config from a YAML file. If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot start with.
func (c Config) Validate() error {
	if c.Player.Health <= 0 {
		return fmt.Errorf("player.health must be positive, got %d", c.Player.Health)
	}
	if c.Player.Energy < 0 {
		return fmt.Errorf("player.energy must not be negative, got %d", c.Player.Energy)
	}
	if len(c.Player.Abilities) == 0 {
		return fmt.Errorf("player needs at least one ability")
	}
	if c.EscapeDelay < 0 {
		return fmt.Errorf("escape_delay must not be negative, got %s", c.EscapeDelay)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NewPlayer builds the player character, checking its abilities exist.
func (c Config) NewPlayer(lookup content.Lookup) (*types.Character, error) {
	for _, name := range c.Player.Abilities {
		if _, err := lookup.Ability(name); err != nil {
			return nil, fmt.Errorf("player ability: %w", err)
		}
	}
	return state.NewPlayer(c.Player.Name, c.Player.Health, c.Player.Energy, c.Player.Stats, c.Player.Abilities), nil
}

// Items resolves the configured item slots against content.
func (c Config) Items(lookup content.Lookup) ([]types.Item, error) {
	items := make([]types.Item, 0, len(c.Player.Items))
	for _, slot := range c.Player.Items {
		it, err := lookup.Item(slot.Name)
		if err != nil {
			return nil, fmt.Errorf("player item: %w", err)
		}
		if slot.Uses > 0 {
			it.Uses = slot.Uses
		}
		items = append(items, it)
	}
	return items, nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
