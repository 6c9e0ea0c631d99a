package constants

// Environment variable keys
const (
	EnvConfigPath = "MOODSPRINT_CONFIG"
	EnvDBDriver   = "MOODSPRINT_DB_DRIVER"
	EnvDBDSN      = "MOODSPRINT_DB_DSN"
	EnvSeed       = "MOODSPRINT_SEED"
	EnvLogLevel   = "MOODSPRINT_LOG_LEVEL"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultConfigPath = "moodsprint.yaml"
	DefaultDBDriver   = "sqlite"
	DefaultDBDSN      = "moodsprint.db"
	DefaultGenre      = "fantasy"
)

// Structured log field keys
const (
	LogFieldUserID    = "user_id"
	LogFieldBattleID  = "battle_id"
	LogFieldMonsterID = "monster_id"
	LogFieldCardID    = "card_id"
	LogFieldCardIDs   = "card_ids"
	LogFieldGenre     = "genre"
	LogFieldPeriod    = "period"
	LogFieldRound     = "round"
	LogFieldOutcome   = "outcome"
	LogFieldRarity    = "rarity"
	LogFieldMode      = "mode"
	LogFieldDriver    = "driver"
	LogFieldCount     = "count"
	LogFieldCode      = "code"
	LogFieldXP        = "xp"
	LogFieldPolicy    = "policy"
	LogFieldVersion   = "version"
)
