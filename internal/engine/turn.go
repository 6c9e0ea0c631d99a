package engine

import (
	"errors"

	"github.com/moodsprint/battle-engine/internal/game"
)

var (
	ErrPlayerCardUnavailable  = errors.New("player card is not alive in this battle")
	ErrMonsterCardUnavailable = errors.New("monster card is not alive in this battle")
)

type Outcome int

const (
	Ongoing Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "ongoing"
	}
}

// TurnResult is what one player turn did to the state.
type TurnResult struct {
	Log         []game.TurnLogEntry
	Outcome     Outcome
	DamageDealt int
	DamageTaken int
}

// --- Turn context ------------------------------------------------------
type turnContext struct {
	st       *game.BattleState
	rng      Random
	round    int
	variance Variance
	res      TurnResult
}

func (tc *turnContext) add(e game.TurnLogEntry) {
	e.Round = tc.round
	tc.res.Log = append(tc.res.Log, e)
}

// strike resolves one attack and logs it together with a card_destroyed
// entry when the defender dies. Returns the HP actually removed.
func (tc *turnContext) strike(actor game.Actor, attacker, defender *game.CardState, critChance float64) int {
	dmg, crit := RollAttack(tc.rng, attacker.Attack, tc.variance, critChance)
	lost := defender.TakeDamage(dmg)
	action := game.ActionAttack
	if crit {
		action = game.ActionCritical
	}
	tc.add(game.TurnLogEntry{
		Actor:       actor,
		CardName:    attacker.Name,
		CardEmoji:   attacker.Emoji,
		Action:      action,
		Damage:      dmg,
		TargetName:  defender.Name,
		TargetEmoji: defender.Emoji,
		IsCritical:  crit,
	})
	if !defender.Alive {
		side := game.ActorMonster
		if actor == game.ActorMonster {
			side = game.ActorPlayer
		}
		tc.add(game.TurnLogEntry{
			Actor:     side,
			CardName:  defender.Name,
			CardEmoji: defender.Emoji,
			Action:    game.ActionCardDestroyed,
		})
	}
	return lost
}

// VarianceFor picks the damage spread for a battle mode.
func VarianceFor(mode game.BattleMode) Variance {
	if mode == game.ModeLegacy {
		return LegacyVariance
	}
	return BattleVariance
}

// ResolveTurn plays one player turn against st in place: the player card
// hits the target; if every monster card is dead the battle is won without
// a counter-attack; otherwise one random live monster card hits one random
// live player card, and the battle is lost if no player card survives.
// Exactly one counter-attack happens per turn regardless of roster size.
func ResolveTurn(st *game.BattleState, rng Random, round int, playerCardID, targetCardID uint) (TurnResult, error) {
	pi := st.FindPlayerCard(playerCardID)
	if pi < 0 || !st.PlayerCards[pi].Alive {
		return TurnResult{}, ErrPlayerCardUnavailable
	}
	ti := st.FindMonsterCard(targetCardID)
	if ti < 0 || !st.MonsterCards[ti].Alive {
		return TurnResult{}, ErrMonsterCardUnavailable
	}

	tc := &turnContext{st: st, rng: rng, round: round, variance: VarianceFor(st.Mode)}
	tc.res.Log = make([]game.TurnLogEntry, 0, 4)

	tc.res.DamageDealt += tc.strike(game.ActorPlayer, &st.PlayerCards[pi], &st.MonsterCards[ti], PlayerCritChance)

	liveMonsters := game.AliveIndexes(st.MonsterCards)
	if len(liveMonsters) == 0 {
		tc.res.Outcome = Won
		return tc.res, nil
	}

	livePlayers := game.AliveIndexes(st.PlayerCards)
	attacker := &st.MonsterCards[liveMonsters[rng.IntN(len(liveMonsters))]]
	defender := &st.PlayerCards[livePlayers[rng.IntN(len(livePlayers))]]
	tc.res.DamageTaken += tc.strike(game.ActorMonster, attacker, defender, MonsterCritChance)

	if len(game.AliveIndexes(st.PlayerCards)) == 0 {
		tc.res.Outcome = Lost
		return tc.res, nil
	}
	tc.res.Outcome = Ongoing
	return tc.res, nil
}
