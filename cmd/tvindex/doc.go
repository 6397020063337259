// Command tvindex ingests EZTV listing pages into a local show catalog and
// queues downloads for subscribed shows.
//
// `tvindex serve` runs the HTTP front end the browser extension posts pages
// to. The remaining commands work on the catalog directly: ingest saved
// pages, manage subscriptions and the watchlist, browse shows and episodes,
// and record what the downloader has done with queued files.
package main
