// Package kvstore is the embedded keyed store behind the catalog.
//
// A Backend holds named buckets of JSON-encoded values and applies batches of
// writes atomically. Two backends are provided: bbolt (the default, one file
// with an exclusive process lock) and SQLite via modernc.org/sqlite. Buffered
// layers an explicit write-back cache on top of a Backend: writes are visible
// to reads immediately and reach disk only on Flush or Close.
package kvstore
