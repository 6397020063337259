// Package ingest turns a fetched listing page into catalog mutations.
//
// Service.Ingest is the single entry point used by the HTTP front end and
// the CLI. Each call extracts the page's release rows in document order,
// files every record through a freshly opened Catalog, and closes the
// catalog before returning so buffered writes reach disk on every exit path.
// Calls are serialized; the catalog has one writer at a time.
//
// When ingest.save_raw_pages is set the received page is also written to
// the raw page archive as the same JSON document the browser extension
// posts, so it can be replayed with `tvindex ingest <file>`.
package ingest
