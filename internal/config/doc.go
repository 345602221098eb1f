// Package config loads costwatch settings from YAML.
//
// A config file is checked against an embedded CUE schema before it is
// decoded, so unknown keys and out-of-range values are rejected with the
// offending path instead of being silently ignored. Missing keys keep their
// defaults. The database path can be overridden with COSTWATCH_DB_PATH.
package config
