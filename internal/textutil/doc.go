// Package textutil provides small text helpers for building filesystem-safe
// names from page URLs and show titles.
package textutil
