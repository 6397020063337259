// Package catalog is the persistent Show → Episode → File store.
//
// Every release record is filed under its show (keyed by the upper-cased
// title), under an episode when the title carried an S00E00 index, and as a
// file keyed by its torrent name. Files are created once; repeats are no-ops.
// New files of subscribed shows are appended to the download queue log
// exactly once.
//
// A Catalog is a single-writer object. Mutations are buffered and reach disk
// when Close (or Flush) is called, so callers must defer Close on every path.
package catalog
