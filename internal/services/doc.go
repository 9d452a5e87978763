// Package services defines shared utilities consumed by the download
// orchestrator and the external collaborator clients.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     into per-item (recorded in the batch summary) and fatal (stop the run).
//   - Short stable reason labels for progress events and summaries.
//
// Use these helpers when wiring new collaborator logic so failure behaviour
// stays uniform across the pipeline.
package services
