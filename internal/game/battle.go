package game

// CardState is one combatant inside a battle's state blob.
type CardState struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Attack int    `json:"attack"`
	Alive  bool   `json:"alive"`
}

// TakeDamage lowers HP by n, never below zero, marks the card dead at zero
// and returns the HP actually lost.
func (c *CardState) TakeDamage(n int) int {
	if n <= 0 || !c.Alive {
		return 0
	}
	if n > c.HP {
		n = c.HP
	}
	c.HP -= n
	if c.HP <= 0 {
		c.HP = 0
		c.Alive = false
	}
	return n
}

type BattleMode string

const (
	// ModeDeck fights a roster of monster cards.
	ModeDeck BattleMode = "deck"
	// ModeLegacy fights a single card built from the monster's own stats.
	ModeLegacy BattleMode = "legacy"
)

// BattleState is serialized into the active_battles.state JSON column. The
// on-disk shape keeps the player_cards / monster_cards keys.
type BattleState struct {
	PlayerCards      []CardState `json:"player_cards"`
	MonsterCards     []CardState `json:"monster_cards"`
	Mode             BattleMode  `json:"mode"`
	MonsterName      string      `json:"monster_name"`
	MonsterEmoji     string      `json:"monster_emoji"`
	Genre            string      `json:"genre"`
	IsBoss           bool        `json:"is_boss"`
	ScaleFactor      float64     `json:"scale_factor"`
	DeckPower        int         `json:"deck_power"`
	XPReward         int         `json:"xp_reward"`
	StatPointsReward int         `json:"stat_points_reward"`
}

// Clone returns a deep copy so callers can mutate rosters freely.
func (s BattleState) Clone() BattleState {
	out := s
	out.PlayerCards = append([]CardState(nil), s.PlayerCards...)
	out.MonsterCards = append([]CardState(nil), s.MonsterCards...)
	return out
}

// FindPlayerCard returns the index of the player card with id, or -1.
func (s *BattleState) FindPlayerCard(id uint) int { return findCard(s.PlayerCards, id) }

// FindMonsterCard returns the index of the monster card with id, or -1.
func (s *BattleState) FindMonsterCard(id uint) int { return findCard(s.MonsterCards, id) }

func findCard(cards []CardState, id uint) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

// AliveIndexes returns the positions of live cards.
func AliveIndexes(cards []CardState) []int {
	out := make([]int, 0, len(cards))
	for i := range cards {
		if cards[i].Alive {
			out = append(out, i)
		}
	}
	return out
}

// DeadCount returns how many cards are no longer alive.
func DeadCount(cards []CardState) int {
	n := 0
	for i := range cards {
		if !cards[i].Alive {
			n++
		}
	}
	return n
}

type Actor string

const (
	ActorPlayer  Actor = "player"
	ActorMonster Actor = "monster"
)

type TurnAction string

const (
	ActionAttack        TurnAction = "attack"
	ActionCritical      TurnAction = "critical"
	ActionCardDestroyed TurnAction = "card_destroyed"
)

// TurnLogEntry is one line of a resolved turn. card_destroyed entries name
// the destroyed card in CardName and its side in Actor.
type TurnLogEntry struct {
	Round       int        `json:"round"`
	Actor       Actor      `json:"actor"`
	CardName    string     `json:"card_name"`
	CardEmoji   string     `json:"card_emoji"`
	Action      TurnAction `json:"action"`
	Damage      int        `json:"damage"`
	TargetName  string     `json:"target_name"`
	TargetEmoji string     `json:"target_emoji"`
	IsCritical  bool       `json:"is_critical"`
}
