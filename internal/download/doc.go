// Package download drives the per-item pipeline: dedup against the
// ledger, fetch, mux, verify, record. A batch runs items sequentially
// and keeps going past per-item failures; only storage or auth loss
// stops the run.
package download
