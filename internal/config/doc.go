// Package config loads the server settings from an optional config file and
// TMS_-prefixed environment variables, validates them, and can watch the file
// for edits so the log level may change without a restart.
package config
