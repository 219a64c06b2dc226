// Package config loads command line settings (flags, QUIZDOWN_* environment
// variables and an optional quizdown.yaml) and render configuration files.
package config
