// Package history persists the download ledger. Each completed download is
// one immutable record keyed by content identifier; the ledger answers
// dedup lookups and backs verification and the rename engine.
package history
