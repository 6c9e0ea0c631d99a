package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/keys"
	"gopkg.in/yaml.v3"
)

// Defeat policies for player cards that die in battle.
const (
	DefeatDestroy  = "destroy"
	DefeatCooldown = "cooldown"
)

type Config struct {
	Database DatabaseConfig `yaml:"database" json:"database"`
	Battle   BattleConfig   `yaml:"battle" json:"battle"`
	Catalog  CatalogConfig  `yaml:"catalog" json:"catalog"`
	// Seed fixes the random source; 0 seeds from the clock.
	Seed     uint64 `yaml:"seed" json:"seed"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

type BattleConfig struct {
	MaxCards     int           `yaml:"max_cards" json:"max_cards"`
	DefeatPolicy string        `yaml:"defeat_policy" json:"defeat_policy"`
	CardCooldown time.Duration `yaml:"card_cooldown" json:"card_cooldown"`
}

type CatalogConfig struct {
	DefaultGenre    string        `yaml:"default_genre" json:"default_genre"`
	NormalPerPeriod int           `yaml:"normal_per_period" json:"normal_per_period"`
	BossesPerPeriod int           `yaml:"bosses_per_period" json:"bosses_per_period"`
	NormalDeckSize  int           `yaml:"normal_deck_size" json:"normal_deck_size"`
	BossDeckSize    int           `yaml:"boss_deck_size" json:"boss_deck_size"`
	Genres          []GenreConfig `yaml:"genres" json:"genres"`
}

// GenreConfig is the template pool for one genre.
type GenreConfig struct {
	Name     string            `yaml:"name" json:"name"`
	Monsters []MonsterTemplate `yaml:"monsters" json:"monsters"`
	Bosses   []MonsterTemplate `yaml:"bosses" json:"bosses"`
	Cards    []CardTemplate    `yaml:"cards" json:"cards"`
}

type MonsterTemplate struct {
	Name             string `yaml:"name" json:"name"`
	Emoji            string `yaml:"emoji" json:"emoji"`
	Description      string `yaml:"description" json:"description"`
	HP               int    `yaml:"hp" json:"hp"`
	Attack           int    `yaml:"attack" json:"attack"`
	Defense          int    `yaml:"defense" json:"defense"`
	Speed            int    `yaml:"speed" json:"speed"`
	XPReward         int    `yaml:"xp_reward" json:"xp_reward"`
	StatPointsReward int    `yaml:"stat_points_reward" json:"stat_points_reward"`
}

// CardTemplate seeds both monster decks and generated player cards.
type CardTemplate struct {
	Name   string `yaml:"name" json:"name"`
	Emoji  string `yaml:"emoji" json:"emoji"`
	HP     int    `yaml:"hp" json:"hp"`
	Attack int    `yaml:"attack" json:"attack"`
}

// Genre looks a genre up by its normalized key.
func (c *CatalogConfig) Genre(name string) (*GenreConfig, bool) {
	k := keys.GenreKey(name)
	for i := range c.Genres {
		if keys.GenreKey(c.Genres[i].Name) == k {
			return &c.Genres[i], true
		}
	}
	return nil, false
}

// GenreNames lists configured genres in file order.
func (c *CatalogConfig) GenreNames() []string {
	out := make([]string, len(c.Genres))
	for i, g := range c.Genres {
		out[i] = g.Name
	}
	return out
}

// LoadConfig reads a YAML (or JSON) file on top of Default, applies the
// MOODSPRINT_* environment overrides and validates the result. An empty
// path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides database and seed settings from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(constants.EnvDBDriver); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(constants.EnvDBDSN); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(constants.EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", constants.EnvSeed, v, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv(constants.EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks ranges and cross-entry consistency: unique genre keys,
// unique template names within a genre, positive stats, and a default
// genre that exists.
func (c *Config) Validate() error {
	var errs []error
	if c.Battle.MaxCards <= 0 {
		errs = append(errs, errors.New("battle.max_cards must be positive"))
	}
	switch c.Battle.DefeatPolicy {
	case DefeatDestroy:
	case DefeatCooldown:
		if c.Battle.CardCooldown <= 0 {
			errs = append(errs, errors.New("battle.card_cooldown must be positive with the cooldown defeat policy"))
		}
	default:
		errs = append(errs, fmt.Errorf("battle.defeat_policy %q is not one of %s, %s", c.Battle.DefeatPolicy, DefeatDestroy, DefeatCooldown))
	}

	cat := &c.Catalog
	if cat.NormalPerPeriod < 0 || cat.BossesPerPeriod < 0 || cat.NormalPerPeriod+cat.BossesPerPeriod == 0 {
		errs = append(errs, errors.New("catalog needs at least one monster per period"))
	}
	if cat.NormalDeckSize <= 0 || cat.BossDeckSize <= 0 {
		errs = append(errs, errors.New("catalog deck sizes must be positive"))
	}
	if len(cat.Genres) == 0 {
		errs = append(errs, errors.New("catalog.genres is empty"))
	}

	genreSet := make(map[string]struct{}, len(cat.Genres))
	for _, g := range cat.Genres {
		k := keys.GenreKey(g.Name)
		if k == "" {
			errs = append(errs, errors.New("genre entry missing 'name'"))
			continue
		}
		if _, exists := genreSet[k]; exists {
			errs = append(errs, fmt.Errorf("duplicate genre '%s'", g.Name))
		}
		genreSet[k] = struct{}{}

		if cat.NormalPerPeriod > 0 && len(g.Monsters) == 0 {
			errs = append(errs, fmt.Errorf("genre '%s' has no monsters", g.Name))
		}
		if cat.BossesPerPeriod > 0 && len(g.Bosses) == 0 {
			errs = append(errs, fmt.Errorf("genre '%s' has no bosses", g.Name))
		}
		names := make(map[string]struct{})
		for _, m := range append(append([]MonsterTemplate(nil), g.Monsters...), g.Bosses...) {
			ln := strings.ToLower(strings.TrimSpace(m.Name))
			if ln == "" {
				errs = append(errs, fmt.Errorf("genre '%s': monster entry missing 'name'", g.Name))
				continue
			}
			if _, exists := names[ln]; exists {
				errs = append(errs, fmt.Errorf("genre '%s': duplicate monster name '%s'", g.Name, m.Name))
			}
			names[ln] = struct{}{}
			if m.HP <= 0 || m.Attack <= 0 {
				errs = append(errs, fmt.Errorf("genre '%s': monster '%s' needs positive hp and attack", g.Name, m.Name))
			}
		}
		cardNames := make(map[string]struct{})
		for _, ct := range g.Cards {
			ln := strings.ToLower(strings.TrimSpace(ct.Name))
			if _, exists := cardNames[ln]; exists {
				errs = append(errs, fmt.Errorf("genre '%s': duplicate card template '%s'", g.Name, ct.Name))
			}
			cardNames[ln] = struct{}{}
			if ct.HP <= 0 || ct.Attack <= 0 {
				errs = append(errs, fmt.Errorf("genre '%s': card template '%s' needs positive hp and attack", g.Name, ct.Name))
			}
		}
	}
	if _, ok := genreSet[keys.GenreKey(cat.DefaultGenre)]; !ok && len(cat.Genres) > 0 {
		errs = append(errs, fmt.Errorf("catalog.default_genre '%s' is not configured", cat.DefaultGenre))
	}
	return errors.Join(errs...)
}
