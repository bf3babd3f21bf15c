// Package config provides configuration structures and utilities for jpfill.
// It defines the command line options, the fill settings that shape a pass,
// and the .jpfill file that carries per-site overrides.
package config
