// Package dedupe holds shared singleflight groups that collapse concurrent
// generation requests in this process: one generation runs per key while
// other callers wait for its result.
package dedupe

import "golang.org/x/sync/singleflight"

// RosterGroup deduplicates monster roster generation keyed by
// keys.RosterKey (e.g. "roster:fantasy:2026-10-19").
var RosterGroup singleflight.Group
