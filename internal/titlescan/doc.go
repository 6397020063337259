// Package titlescan splits free-text release titles into typed tokens.
//
// A release title such as "Show Name S01E02 720p HDTV x264-GROUP [eztv]" is
// stripped of its show-title prefix and tokenized against a small ordered
// grammar: episode index, resolution, source, distributor tag, release flag,
// encoder group, and filler words. Tokenize is pure and reports spans; Scan
// folds the tokens into Metadata and computes the unmatched leftover text.
package titlescan
