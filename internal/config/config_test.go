// Package config provides configuration management for ck-sidecar.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// ConfigSuite is a test suite for config operations.
type ConfigSuite struct {
	suite.Suite
	projectDir string
}

func (s *ConfigSuite) SetupTest() {
	s.projectDir = s.T().TempDir()
	s.T().Setenv(EnvRoot, "")
	os.Unsetenv(EnvRoot)
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

// TestDefault tests default configuration values.
func (s *ConfigSuite) TestDefault() {
	cfg := Default()

	s.Equal(8000, cfg.Swap.DefaultThreshold)
	s.Equal(12000, cfg.Swap.ToolThresholds["Read"])
	s.Equal(1<<20, cfg.Swap.MaxEntryBytes)
	s.Equal(200, cfg.Swap.MaxEntries)
	s.Equal(24*time.Hour, cfg.Retention())
	s.Equal(0.34, cfg.Detect.MinConfidence)
	s.Equal(2*time.Second, cfg.LockTimeout())
	s.Equal(10*time.Second, cfg.LockStaleAfter())
}

// TestThresholdFor tests per-tool threshold resolution.
func (s *ConfigSuite) TestThresholdFor() {
	cfg := Default()
	s.Equal(12000, cfg.ThresholdFor("Read"))
	s.Equal(8000, cfg.ThresholdFor("SomeUnknownTool"))
}

// TestLoad_TableDriven tests configuration loading with various scenarios.
func (s *ConfigSuite) TestLoad_TableDriven() {
	tests := []struct {
		name              string
		settingsJSON      string
		expectedThreshold int
		expectedEntries   int
	}{
		{
			name:              "no settings file",
			settingsJSON:      "",
			expectedThreshold: 8000,
			expectedEntries:   200,
		},
		{
			name:              "custom threshold",
			settingsJSON:      `{"swap": {"defaultThreshold": 4000}}`,
			expectedThreshold: 4000,
			expectedEntries:   200,
		},
		{
			name:              "malformed file falls back to defaults",
			settingsJSON:      `{"swap": nonsense`,
			expectedThreshold: 8000,
			expectedEntries:   200,
		},
		{
			name:              "zero threshold falls back to default",
			settingsJSON:      `{"swap": {"defaultThreshold": 0, "maxEntries": 50}}`,
			expectedThreshold: 8000,
			expectedEntries:   50,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			dir := s.T().TempDir()
			if tt.settingsJSON != "" {
				err := os.WriteFile(filepath.Join(dir, SettingsName), []byte(tt.settingsJSON), 0o600)
				s.Require().NoError(err)
			}
			cfg := Load(dir)
			s.Equal(tt.expectedThreshold, cfg.Swap.DefaultThreshold)
			s.Equal(tt.expectedEntries, cfg.Swap.MaxEntries)
		})
	}
}

// TestScratchRootResolution tests scratch root defaulting and overrides.
func (s *ConfigSuite) TestScratchRootResolution() {
	cfg := Load(s.projectDir)
	s.Contains(cfg.ScratchRoot, "claude-sidecar")

	s.T().Setenv(EnvRoot, "/tmp/elsewhere")
	cfg = Load(s.projectDir)
	s.Equal("/tmp/elsewhere", cfg.ScratchRoot)
}

// TestEnvFlags tests the environment escape hatches.
func (s *ConfigSuite) TestEnvFlags() {
	s.False(Bypass())
	s.T().Setenv(EnvBypass, "1")
	s.True(Bypass())

	s.False(Debug())
	s.T().Setenv(EnvDebug, "1")
	s.True(Debug())
}
