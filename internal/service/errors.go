package service

import "errors"

// Code is the stable identifier a caller maps to a user-facing message.
type Code string

const (
	CodeBattleInProgress         Code = "battle_in_progress"
	CodeMonsterNotFound          Code = "monster_not_found"
	CodeMonsterAlreadyDefeated   Code = "monster_already_defeated"
	CodeNoValidCards             Code = "no_valid_cards"
	CodeCardsNoHP                Code = "cards_no_hp"
	CodeNoActiveBattle           Code = "no_active_battle"
	CodeNotPlayerTurn            Code = "not_player_turn"
	CodeInvalidPlayerCard        Code = "invalid_player_card"
	CodeInvalidMonsterCard       Code = "invalid_monster_card"
	CodeSameCard                 Code = "same_card"
	CodeCardNotFound             Code = "card_not_found"
	CodeCardDestroyed            Code = "card_destroyed"
	CodeCannotMergeLegendary     Code = "cannot_merge_legendary"
	CodeCardInDeck               Code = "card_in_deck"
	CodeInvalidRarityCombination Code = "invalid_rarity_combination"
	CodeDeckFull                 Code = "deck_full"
	CodeCardOnCooldown           Code = "card_on_cooldown"
	CodeGenreNotFound            Code = "genre_not_found"
	CodeInternal                 Code = "internal_error"
)

// Error is a precondition failure. It is returned before any mutation, so
// the store is unchanged when a call fails with one.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

func newError(code Code, msg string) *Error { return &Error{Code: code, Message: msg} }

var (
	ErrBattleInProgress         = newError(CodeBattleInProgress, "a battle is already in progress")
	ErrMonsterNotFound          = newError(CodeMonsterNotFound, "monster not found")
	ErrMonsterAlreadyDefeated   = newError(CodeMonsterAlreadyDefeated, "monster already defeated this period")
	ErrNoValidCards             = newError(CodeNoValidCards, "no usable cards selected")
	ErrCardsNoHP                = newError(CodeCardsNoHP, "selected cards have no hp left")
	ErrNoActiveBattle           = newError(CodeNoActiveBattle, "no active battle")
	ErrNotPlayerTurn            = newError(CodeNotPlayerTurn, "not the player's turn")
	ErrInvalidPlayerCard        = newError(CodeInvalidPlayerCard, "player card is not alive in this battle")
	ErrInvalidMonsterCard       = newError(CodeInvalidMonsterCard, "monster card is not alive in this battle")
	ErrSameCard                 = newError(CodeSameCard, "cannot merge a card with itself")
	ErrCardNotFound             = newError(CodeCardNotFound, "card not found")
	ErrCardDestroyed            = newError(CodeCardDestroyed, "card is destroyed")
	ErrCannotMergeLegendary     = newError(CodeCannotMergeLegendary, "legendary cards cannot be merged")
	ErrCardInDeck               = newError(CodeCardInDeck, "remove the card from the deck first")
	ErrInvalidRarityCombination = newError(CodeInvalidRarityCombination, "no merge outcome for this rarity pair")
	ErrDeckFull                 = newError(CodeDeckFull, "battle deck is full")
	ErrCardOnCooldown           = newError(CodeCardOnCooldown, "card is recovering")
	ErrGenreNotFound            = newError(CodeGenreNotFound, "genre is not configured")
)

// ErrorCode maps any error returned by this package to its code. Failures
// that are not preconditions (storage, context) report internal_error.
func ErrorCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
