// Package config provides configuration management for ck-sidecar.
//
// Settings are read once per invocation from a project-local ck.json; a
// missing or unreadable file falls back to built-in defaults. Nothing here
// ever returns an error to the caller: configuration failure must not make
// a hook invocation fail.
package config

import (
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

// SettingsName is the project-local settings file consulted by every hook.
const SettingsName = "ck.json"

// Environment escape hatches.
const (
	EnvBypass = "CK_SIDECAR_BYPASS" // "1" forces the enforcement gate open
	EnvDebug  = "CK_SIDECAR_DEBUG"  // "1" enables debug logging
	EnvRoot   = "CK_SIDECAR_ROOT"   // overrides the scratch root
)

// SwapConfig bounds the externalized-memory store.
type SwapConfig struct {
	// DefaultThreshold is the per-tool externalization threshold in chars
	// when no tool-specific value is configured. Content at or below the
	// threshold stays inline.
	DefaultThreshold int `json:"defaultThreshold"`
	// ToolThresholds overrides the threshold for specific tools.
	ToolThresholds map[string]int `json:"toolThresholds,omitempty"`
	// MaxEntryBytes is the hard per-entry cap; larger content is left
	// inline rather than stored.
	MaxEntryBytes int `json:"maxEntryBytes"`
	// RetentionMinutes is the base retention window for stored entries.
	RetentionMinutes int `json:"retentionMinutes"`
	// MaxEntries and MaxBytes cap a session's total swap usage.
	MaxEntries int   `json:"maxEntries"`
	MaxBytes   int64 `json:"maxBytes"`
}

// DetectConfig tunes the workflow detector.
type DetectConfig struct {
	// MinConfidence is the floor below which no workflow is detected.
	MinConfidence float64 `json:"minConfidence"`
}

// Config is the full per-invocation configuration.
type Config struct {
	ScratchRoot   string       `json:"scratchRoot,omitempty"`
	NotifyCommand string       `json:"notifyCommand,omitempty"`
	Swap          SwapConfig   `json:"swap"`
	Detect        DetectConfig `json:"detect"`

	// Lock tuning. Not usually set by users; present so tests and unusual
	// environments can shorten the windows.
	LockTimeoutMS int `json:"lockTimeoutMs,omitempty"`
	LockStaleMS   int `json:"lockStaleMs,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Swap: SwapConfig{
			DefaultThreshold: 8000,
			ToolThresholds: map[string]int{
				"Read": 12000,
				"Bash": 8000,
				"Grep": 6000,
				"Glob": 6000,
			},
			MaxEntryBytes:    1 << 20, // 1 MiB
			RetentionMinutes: 1440,    // 24h
			MaxEntries:       200,
			MaxBytes:         64 << 20, // 64 MiB
		},
		Detect: DetectConfig{
			MinConfidence: 0.34,
		},
		LockTimeoutMS: 2000,
		LockStaleMS:   10000,
	}
}

// Load reads ck.json from projectDir and merges it over the defaults.
// Any read or parse failure yields the defaults.
func Load(projectDir string) *Config {
	cfg := Default()
	if projectDir == "" {
		return applyEnv(cfg)
	}
	data, err := os.ReadFile(filepath.Join(projectDir, SettingsName))
	if err != nil {
		return applyEnv(cfg)
	}
	// Unmarshal over the defaults so absent keys keep their default values.
	if err := json.Unmarshal(data, cfg); err != nil {
		return applyEnv(Default())
	}
	if cfg.Swap.DefaultThreshold <= 0 {
		cfg.Swap.DefaultThreshold = Default().Swap.DefaultThreshold
	}
	if cfg.Swap.MaxEntryBytes <= 0 {
		cfg.Swap.MaxEntryBytes = Default().Swap.MaxEntryBytes
	}
	if cfg.Detect.MinConfidence <= 0 {
		cfg.Detect.MinConfidence = Default().Detect.MinConfidence
	}
	return applyEnv(cfg)
}

func applyEnv(cfg *Config) *Config {
	if root := os.Getenv(EnvRoot); root != "" {
		cfg.ScratchRoot = root
	}
	if cfg.ScratchRoot == "" {
		cfg.ScratchRoot = filepath.Join(os.TempDir(), "claude-sidecar")
	}
	return cfg
}

// ThresholdFor returns the externalization threshold for a tool.
func (c *Config) ThresholdFor(tool string) int {
	if t, ok := c.Swap.ToolThresholds[tool]; ok && t > 0 {
		return t
	}
	return c.Swap.DefaultThreshold
}

// Retention returns the base retention window.
func (c *Config) Retention() time.Duration {
	if c.Swap.RetentionMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Swap.RetentionMinutes) * time.Minute
}

// LockTimeout is how long a writer waits for the session lock before
// degrading to pass-through behavior.
func (c *Config) LockTimeout() time.Duration {
	if c.LockTimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.LockTimeoutMS) * time.Millisecond
}

// LockStaleAfter is the age past which a lock file is presumed abandoned.
func (c *Config) LockStaleAfter() time.Duration {
	if c.LockStaleMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.LockStaleMS) * time.Millisecond
}

// Debug reports whether debug logging is enabled.
func Debug() bool {
	return os.Getenv(EnvDebug) == "1"
}

// Bypass reports whether the enforcement gate is forced open.
func Bypass() bool {
	return os.Getenv(EnvBypass) == "1"
}
