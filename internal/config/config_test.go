package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigSectionBoundaryDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.FoundationSectionBoundary)
	assert.Equal(t, 10, cfg.HigherSectionBoundary)
}

func TestSectionBoundary(t *testing.T) {
	cfg := &Config{FoundationSectionBoundary: 12, HigherSectionBoundary: 10}

	assert.Equal(t, 10, cfg.SectionBoundary("higher"))
	assert.Equal(t, 12, cfg.SectionBoundary("foundation"))
	// unknown tiers fall back to the foundation boundary
	assert.Equal(t, 12, cfg.SectionBoundary(""))
}
