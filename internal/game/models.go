package game

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Card is a player-owned combat unit.
type Card struct {
	gorm.Model
	UserID    int64  `json:"user_id" gorm:"index;not null"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Genre     string `json:"genre" gorm:"index"`
	Rarity    Rarity `json:"rarity" gorm:"size:16"`
	HP        int    `json:"hp"`
	CurrentHP int    `json:"current_hp"`
	Attack    int    `json:"attack"`
	// Ability is nil for cards without a skill.
	Ability         *Ability `json:"ability" gorm:"size:32"`
	AbilityCooldown int      `json:"ability_cooldown"`
	IsTradeable     bool     `json:"is_tradeable"`
	IsInDeck        bool     `json:"is_in_deck" gorm:"index"`
	IsDestroyed     bool     `json:"is_destroyed" gorm:"index"`
	// CooldownUntil gates battle availability after a defeat when the
	// cooldown defeat policy is active.
	CooldownUntil *time.Time `json:"cooldown_until"`
}

func (Card) TableName() string { return "user_cards" }

// Monster is an NPC opponent. Base stats are reference data and are never
// mutated; battles work on a scaled copy frozen into their state.
type Monster struct {
	gorm.Model
	Name             string        `json:"name"`
	Emoji            string        `json:"emoji"`
	Description      string        `json:"description"`
	Genre            string        `json:"genre" gorm:"index"`
	HP               int           `json:"hp"`
	Attack           int           `json:"attack"`
	Defense          int           `json:"defense"`
	Speed            int           `json:"speed"`
	XPReward         int           `json:"xp_reward"`
	StatPointsReward int           `json:"stat_points_reward"`
	IsBoss           bool          `json:"is_boss"`
	PeriodStart      time.Time     `json:"period_start" gorm:"index"`
	Cards            []MonsterCard `json:"cards" gorm:"foreignKey:MonsterID"`
}

func (Monster) TableName() string { return "monsters" }

// MonsterCard is one entry of a monster's pre-generated deck.
type MonsterCard struct {
	gorm.Model
	MonsterID uint   `json:"monster_id" gorm:"index;not null"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	HP        int    `json:"hp"`
	Attack    int    `json:"attack"`
}

func (MonsterCard) TableName() string { return "monster_cards" }

// RosterSlot pins a monster to a position of a genre's roster for one
// rotation period. The composite unique index is what makes roster
// generation exactly-once per period across processes.
type RosterSlot struct {
	gorm.Model
	Genre       string    `json:"genre" gorm:"size:32;uniqueIndex:idx_roster_slot"`
	PeriodStart time.Time `json:"period_start" gorm:"uniqueIndex:idx_roster_slot"`
	Slot        int       `json:"slot" gorm:"uniqueIndex:idx_roster_slot"`
	MonsterID   uint      `json:"monster_id" gorm:"not null"`
}

func (RosterSlot) TableName() string { return "monster_roster_slots" }

// DefeatedMonster records a win against a monster within a period.
type DefeatedMonster struct {
	gorm.Model
	UserID      int64     `json:"user_id" gorm:"uniqueIndex:idx_defeated_once"`
	MonsterID   uint      `json:"monster_id" gorm:"uniqueIndex:idx_defeated_once"`
	PeriodStart time.Time `json:"period_start" gorm:"uniqueIndex:idx_defeated_once"`
}

func (DefeatedMonster) TableName() string { return "defeated_monsters" }

type BattleStatus string

const (
	BattleActive BattleStatus = "active"
	BattleWon    BattleStatus = "won"
	BattleLost   BattleStatus = "lost"
)

// Terminal reports whether no further turns can be played.
func (s BattleStatus) Terminal() bool { return s == BattleWon || s == BattleLost }

const TurnPlayer = "player"

// ActiveBattle is the single mutable unit of battle state.
type ActiveBattle struct {
	gorm.Model
	UserID int64 `json:"user_id" gorm:"index;not null"`
	// ActiveSlot equals UserID while the battle is active and is cleared on
	// close-out. Its unique index enforces one active battle per user.
	ActiveSlot   *int64                          `json:"-" gorm:"uniqueIndex"`
	MonsterID    uint                            `json:"monster_id"`
	PeriodStart  time.Time                       `json:"period_start"`
	State        datatypes.JSONType[BattleState] `json:"state"`
	CurrentTurn  string                          `json:"current_turn" gorm:"size:16"`
	CurrentRound int                             `json:"current_round"`
	DamageDealt  int                             `json:"damage_dealt"`
	DamageTaken  int                             `json:"damage_taken"`
	Status       BattleStatus                    `json:"status" gorm:"size:16;index"`
}

func (ActiveBattle) TableName() string { return "active_battles" }

// BattleLog is the permanent audit row written when a battle closes.
type BattleLog struct {
	ID               string                             `json:"id" gorm:"primaryKey;size:36"`
	UserID           int64                              `json:"user_id" gorm:"index"`
	BattleID         uint                               `json:"battle_id"`
	MonsterID        uint                               `json:"monster_id"`
	Won              bool                               `json:"won"`
	Rounds           int                                `json:"rounds"`
	DamageDealt      int                                `json:"damage_dealt"`
	DamageTaken      int                                `json:"damage_taken"`
	XPEarned         int                                `json:"xp_earned"`
	StatPointsEarned int                                `json:"stat_points_earned"`
	CardsLost        int                                `json:"cards_lost"`
	RewardCardID     *uint                              `json:"reward_card_id"`
	TurnLog          datatypes.JSONType[[]TurnLogEntry] `json:"turn_log"`
	CreatedAt        time.Time                          `json:"created_at"`
}

func (BattleLog) TableName() string { return "battle_logs" }

// MergeLog is a write-once audit record of one merge. Input names and
// rarities are captured before the inputs are destroyed.
type MergeLog struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	UserID       int64     `json:"user_id" gorm:"index"`
	Card1ID      uint      `json:"card1_id"`
	Card1Name    string    `json:"card1_name"`
	Card1Rarity  Rarity    `json:"card1_rarity" gorm:"size:16"`
	Card2ID      uint      `json:"card2_id"`
	Card2Name    string    `json:"card2_name"`
	Card2Rarity  Rarity    `json:"card2_rarity" gorm:"size:16"`
	ResultCardID *uint     `json:"result_card_id"`
	ResultRarity Rarity    `json:"result_rarity" gorm:"size:16"`
	CreatedAt    time.Time `json:"created_at"`
}

func (MergeLog) TableName() string { return "merge_logs" }

// UserProgress stores per-user rewards and aggregate counters.
type UserProgress struct {
	gorm.Model
	UserID      int64  `json:"user_id" gorm:"uniqueIndex;not null"`
	Genre       string `json:"genre"`
	XP          int64  `json:"xp"`
	StatPoints  int    `json:"stat_points"`
	BattlesWon  int    `json:"battles_won"`
	BattlesLost int    `json:"battles_lost"`
	CardsMerged int    `json:"cards_merged"`
}

func (UserProgress) TableName() string { return "user_progress" }

// CardSpec is what the card generator needs to synthesize a new card.
type CardSpec struct {
	UserID       int64
	Rarity       Rarity
	Genre        string
	ContextTitle string
}
