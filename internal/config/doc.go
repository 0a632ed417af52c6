// Package config holds the runtime configuration for seclog.
//
// Configuration is populated from defaults, an optional YAML file, and
// CLI flags, then validated once before any sink is opened. The Config
// struct is passed through the application via dependency injection
// rather than global state.
package config
