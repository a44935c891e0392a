// Package config provides configuration structures and utilities for the
// crawler. It defines the main options for browser-driven exploration,
// transition probing, and export preferences.
package config
