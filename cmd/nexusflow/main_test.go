package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f9-o/nexusflow/internal/cli/commands"
)

// TestApplyBuildInfo verifies ldflags-injected metadata reaches the version command.
func TestApplyBuildInfo(t *testing.T) {
	prevV, prevC, prevD := version, commit, buildDate
	t.Cleanup(func() {
		version, commit, buildDate = prevV, prevC, prevD
		applyBuildInfo()
	})

	version, commit, buildDate = "v1.2.3", "abc1234", "2026-01-01"
	applyBuildInfo()

	assert.Equal(t, "v1.2.3", commands.Version)
	assert.Equal(t, "abc1234", commands.Commit)
	assert.Equal(t, "2026-01-01", commands.BuildDate)
}
