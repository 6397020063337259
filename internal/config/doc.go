// Package config loads, normalizes, and validates tvindex configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TVINDEX_DATA_DIR. The Config type is passed explicitly into the listing
// extractor, the catalog, and the HTTP front end; nothing in the repository
// reads settings from package-level state.
package config
