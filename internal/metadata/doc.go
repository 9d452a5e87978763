// Package metadata normalizes raw catalog titles into canonical naming
// metadata.
//
// Episode formats are recognized by an ordered list of pure matchers; the
// first match wins and unparseable titles always fall back to a standalone
// special rather than erroring. The package also owns title sanitization and
// the best-effort filename re-parse used by the rename engine.
package metadata
