// Package api serves the HTTP front end that receives listing pages and
// exposes the catalog to other tools.
//
// # Endpoints
//
// POST /webparser: {"page_url", "page_source"} as posted by the browser
// extension. The URL is matched against server.siteparsers in order; the
// first match picks the parser. "eztv" ingests the page, "archive" only
// stores it in the raw page archive. No match is a 404.
//
// POST /subscriptions: {"shows_subscribed": [...]}, the same document as the
// subscriptions file.
//
// GET /shows: every known show. GET /healthz: liveness.
//
// # Design Notes
//
// Response DTOs use camelCase JSON tags. Request bodies keep the snake_case
// field names the browser extension already sends. Bodies are capped at
// server.max_body_mib. Catalog access goes through ingest.Service so page
// ingestion and subscription changes never write concurrently.
package api
