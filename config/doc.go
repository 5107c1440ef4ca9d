// Package config loads FireLogger settings.
//
// Settings come from three layers, highest precedence first:
//
//  1. FIRELOGGER_* environment variables (FIRELOGGER_PASSWORD -> password)
//  2. an optional YAML file
//  3. built-in defaults (see Default)
//
// Loading is done with github.com/knadh/koanf. Every switch of the
// original FireLogger server libraries has a field here: the version
// check, the password check, error filtering, the default logger and the
// error and exception hooks can each be turned off.
package config
