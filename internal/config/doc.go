// Package config loads and validates the chapterize configuration file.
//
// Configuration is TOML, defaulting to ~/.config/chapterize/config.toml with
// a chapterize.toml in the working directory as a project-local fallback.
// All values have working defaults; the file is optional.
package config
