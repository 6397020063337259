// Package listing turns an EZTV listing page into a stream of release records.
//
// The page layout is an implicit contract: the listing table starts at the
// row containing the first <h1>, the row after it holds column headings,
// single-cell rows carry a date that applies to the rows below them, and
// seven-cell rows describe one release. All knowledge of that layout lives
// here so a change on the site fails in one testable place.
package listing
