package config

import (
	"time"

	"github.com/moodsprint/battle-engine/internal/constants"
)

// Default returns the built-in configuration: sqlite storage, destroy on
// defeat, four normal monsters plus one boss per weekly period, and the
// five stock genres.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: constants.DefaultDBDriver,
			DSN:    constants.DefaultDBDSN,
		},
		Battle: BattleConfig{
			MaxCards:     5,
			DefeatPolicy: DefeatDestroy,
			CardCooldown: 24 * time.Hour,
		},
		Catalog: CatalogConfig{
			DefaultGenre:    constants.DefaultGenre,
			NormalPerPeriod: 4,
			BossesPerPeriod: 1,
			NormalDeckSize:  3,
			BossDeckSize:    4,
			Genres:          defaultGenres(),
		},
		LogLevel: "info",
	}
}

func defaultGenres() []GenreConfig {
	return []GenreConfig{
		{
			Name: "magic",
			Monsters: []MonsterTemplate{
				{Name: "Rogue Familiar", Emoji: "🐈‍⬛", HP: 80, Attack: 14, Defense: 4, Speed: 12, XPReward: 40, StatPointsReward: 1},
				{Name: "Hex Wisp", Emoji: "🕯️", HP: 60, Attack: 18, Defense: 2, Speed: 16, XPReward: 40, StatPointsReward: 1},
				{Name: "Grimoire Mimic", Emoji: "📕", HP: 110, Attack: 12, Defense: 8, Speed: 6, XPReward: 50, StatPointsReward: 1},
				{Name: "Mana Leech", Emoji: "🪱", HP: 90, Attack: 15, Defense: 5, Speed: 9, XPReward: 45, StatPointsReward: 1},
				{Name: "Cursed Broom", Emoji: "🧹", HP: 70, Attack: 16, Defense: 3, Speed: 14, XPReward: 40, StatPointsReward: 1},
			},
			Bosses: []MonsterTemplate{
				{Name: "Archlich of Deadlines", Emoji: "💀", Description: "Feeds on postponed tasks.", HP: 220, Attack: 26, Defense: 12, Speed: 10, XPReward: 120, StatPointsReward: 3},
				{Name: "The Unfinished Spell", Emoji: "🌀", Description: "A ritual nobody closed.", HP: 200, Attack: 28, Defense: 10, Speed: 12, XPReward: 120, StatPointsReward: 3},
			},
			Cards: []CardTemplate{
				{Name: "Apprentice", Emoji: "🧙", HP: 45, Attack: 12},
				{Name: "Spellblade", Emoji: "🗡️", HP: 50, Attack: 15},
				{Name: "Crystal Golem", Emoji: "💎", HP: 70, Attack: 9},
				{Name: "Phoenix Chick", Emoji: "🐦‍🔥", HP: 40, Attack: 16},
				{Name: "Rune Warden", Emoji: "🔮", HP: 60, Attack: 11},
				{Name: "Witch Cat", Emoji: "🐈", HP: 38, Attack: 17},
			},
		},
		{
			Name: "fantasy",
			Monsters: []MonsterTemplate{
				{Name: "Goblin Scout", Emoji: "👺", HP: 70, Attack: 15, Defense: 3, Speed: 14, XPReward: 40, StatPointsReward: 1},
				{Name: "Cave Troll", Emoji: "🧌", HP: 120, Attack: 13, Defense: 9, Speed: 4, XPReward: 55, StatPointsReward: 1},
				{Name: "Dire Wolf", Emoji: "🐺", HP: 80, Attack: 17, Defense: 4, Speed: 15, XPReward: 45, StatPointsReward: 1},
				{Name: "Bog Witch", Emoji: "🧪", HP: 75, Attack: 16, Defense: 5, Speed: 8, XPReward: 45, StatPointsReward: 1},
				{Name: "Skeleton Knight", Emoji: "🦴", HP: 95, Attack: 14, Defense: 7, Speed: 7, XPReward: 50, StatPointsReward: 1},
			},
			Bosses: []MonsterTemplate{
				{Name: "Procrastination Dragon", Emoji: "🐉", Description: "Hoards tomorrows.", HP: 250, Attack: 25, Defense: 14, Speed: 9, XPReward: 130, StatPointsReward: 3},
				{Name: "Lord of Clutter", Emoji: "👑", Description: "Rules a kingdom of open tabs.", HP: 210, Attack: 27, Defense: 11, Speed: 10, XPReward: 120, StatPointsReward: 3},
			},
			Cards: []CardTemplate{
				{Name: "Squire", Emoji: "🛡️", HP: 55, Attack: 10},
				{Name: "Ranger", Emoji: "🏹", HP: 42, Attack: 15},
				{Name: "Paladin", Emoji: "⚔️", HP: 65, Attack: 12},
				{Name: "Dwarf Smith", Emoji: "⚒️", HP: 60, Attack: 11},
				{Name: "Elven Bard", Emoji: "🎻", HP: 40, Attack: 13},
				{Name: "Griffin", Emoji: "🦅", HP: 50, Attack: 16},
			},
		},
		{
			Name: "scifi",
			Monsters: []MonsterTemplate{
				{Name: "Rogue Drone", Emoji: "🛸", HP: 65, Attack: 17, Defense: 3, Speed: 16, XPReward: 40, StatPointsReward: 1},
				{Name: "Void Slug", Emoji: "🐌", HP: 115, Attack: 11, Defense: 9, Speed: 3, XPReward: 50, StatPointsReward: 1},
				{Name: "Glitched Android", Emoji: "🤖", HP: 90, Attack: 15, Defense: 6, Speed: 9, XPReward: 45, StatPointsReward: 1},
				{Name: "Asteroid Mite", Emoji: "☄️", HP: 60, Attack: 18, Defense: 2, Speed: 13, XPReward: 40, StatPointsReward: 1},
				{Name: "Plasma Jelly", Emoji: "🪼", HP: 85, Attack: 14, Defense: 5, Speed: 8, XPReward: 45, StatPointsReward: 1},
			},
			Bosses: []MonsterTemplate{
				{Name: "Backlog Singularity", Emoji: "🕳️", Description: "Nothing escapes its queue.", HP: 240, Attack: 26, Defense: 13, Speed: 8, XPReward: 130, StatPointsReward: 3},
				{Name: "Admiral Overload", Emoji: "🚀", Description: "Commands a fleet of notifications.", HP: 215, Attack: 28, Defense: 10, Speed: 12, XPReward: 120, StatPointsReward: 3},
			},
			Cards: []CardTemplate{
				{Name: "Cadet", Emoji: "👩‍🚀", HP: 45, Attack: 12},
				{Name: "Mech Pilot", Emoji: "🦾", HP: 60, Attack: 13},
				{Name: "Laser Turret", Emoji: "🔫", HP: 35, Attack: 18},
				{Name: "Shield Bot", Emoji: "🛰️", HP: 72, Attack: 8},
				{Name: "Xeno Scout", Emoji: "👽", HP: 48, Attack: 14},
				{Name: "Nano Swarm", Emoji: "🦠", HP: 40, Attack: 16},
			},
		},
		{
			Name: "cyberpunk",
			Monsters: []MonsterTemplate{
				{Name: "Street Samurai", Emoji: "🥷", HP: 75, Attack: 17, Defense: 4, Speed: 14, XPReward: 45, StatPointsReward: 1},
				{Name: "Spam Daemon", Emoji: "📧", HP: 65, Attack: 16, Defense: 3, Speed: 15, XPReward: 40, StatPointsReward: 1},
				{Name: "Corp Enforcer", Emoji: "🕴️", HP: 110, Attack: 13, Defense: 8, Speed: 6, XPReward: 50, StatPointsReward: 1},
				{Name: "Neon Ghoul", Emoji: "🧟", HP: 85, Attack: 15, Defense: 5, Speed: 9, XPReward: 45, StatPointsReward: 1},
				{Name: "Rusty Cyberdog", Emoji: "🐕", HP: 70, Attack: 16, Defense: 4, Speed: 13, XPReward: 40, StatPointsReward: 1},
			},
			Bosses: []MonsterTemplate{
				{Name: "Infinite Scroll AI", Emoji: "📱", Description: "Never lets go of your attention.", HP: 230, Attack: 27, Defense: 12, Speed: 11, XPReward: 125, StatPointsReward: 3},
				{Name: "Megacorp CEO", Emoji: "🏢", Description: "Schedules meetings about meetings.", HP: 245, Attack: 24, Defense: 14, Speed: 8, XPReward: 130, StatPointsReward: 3},
			},
			Cards: []CardTemplate{
				{Name: "Netrunner", Emoji: "💻", HP: 40, Attack: 16},
				{Name: "Fixer", Emoji: "🕶️", HP: 50, Attack: 12},
				{Name: "Chrome Medic", Emoji: "💉", HP: 58, Attack: 9},
				{Name: "Solo", Emoji: "🔪", HP: 52, Attack: 15},
				{Name: "Drone Rigger", Emoji: "📡", HP: 45, Attack: 13},
				{Name: "Synth Bouncer", Emoji: "🦿", HP: 70, Attack: 10},
			},
		},
		{
			Name: "anime",
			Monsters: []MonsterTemplate{
				{Name: "Mischief Kitsune", Emoji: "🦊", HP: 70, Attack: 16, Defense: 4, Speed: 15, XPReward: 40, StatPointsReward: 1},
				{Name: "Oni Brute", Emoji: "👹", HP: 115, Attack: 14, Defense: 8, Speed: 5, XPReward: 50, StatPointsReward: 1},
				{Name: "Rival Student", Emoji: "🎒", HP: 75, Attack: 15, Defense: 5, Speed: 12, XPReward: 45, StatPointsReward: 1},
				{Name: "Haunted Umbrella", Emoji: "☂️", HP: 60, Attack: 17, Defense: 3, Speed: 14, XPReward: 40, StatPointsReward: 1},
				{Name: "Mecha Kaiju Pup", Emoji: "🦖", HP: 100, Attack: 13, Defense: 7, Speed: 7, XPReward: 50, StatPointsReward: 1},
			},
			Bosses: []MonsterTemplate{
				{Name: "Final Exam Shogun", Emoji: "🏯", Description: "Appears the night before.", HP: 235, Attack: 26, Defense: 13, Speed: 10, XPReward: 125, StatPointsReward: 3},
				{Name: "Demon Lord of Sleep", Emoji: "😈", Description: "Just five more minutes.", HP: 220, Attack: 27, Defense: 11, Speed: 11, XPReward: 120, StatPointsReward: 3},
			},
			Cards: []CardTemplate{
				{Name: "Magical Girl", Emoji: "🪄", HP: 45, Attack: 15},
				{Name: "Ronin", Emoji: "🗡️", HP: 55, Attack: 14},
				{Name: "Shrine Maiden", Emoji: "⛩️", HP: 60, Attack: 10},
				{Name: "Ninja", Emoji: "🌙", HP: 40, Attack: 17},
				{Name: "Spirit Fox", Emoji: "🦊", HP: 48, Attack: 13},
				{Name: "Giant Robot", Emoji: "🤖", HP: 75, Attack: 11},
			},
		},
	}
}
