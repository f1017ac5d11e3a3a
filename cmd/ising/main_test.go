package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-ising/internal/sims/ising"
)

func TestResolveConfigLayersEnvAndFlags(t *testing.T) {
	t.Setenv("ISING_WIDTH", "4")
	t.Setenv("ISING_HEIGHT", "3")
	t.Setenv("ISING_STATES", "-1,1")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addLatticeFlags(fs)
	require.NoError(t, fs.Parse([]string{"--height", "5", "--beta", "0.5"}))

	cfg, err := resolveConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width, "environment value applies when the flag is not set")
	assert.Equal(t, 5, cfg.Height, "explicit flag overrides the environment")
	assert.Equal(t, 0.5, cfg.Beta)
	assert.Equal(t, ising.DefaultConfig().MaxSteps, cfg.MaxSteps)
}

func TestResolveConfigRejectsExplicitZero(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addLatticeFlags(fs)
	require.NoError(t, fs.Parse([]string{"--width", "0"}))
	_, err := resolveConfig(fs)
	assert.ErrorIs(t, err, ising.ErrConfiguration)
}

func TestEnumerateCommandOutput(t *testing.T) {
	root := &rootOptions{logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}
	cmd := newEnumerateCmd(root)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--width", "2", "--height", "2", "--workers", "2", "--signatures"})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "total states 16\n"), text)
	assert.Contains(t, text, "energy=-4 count=2\n")
	assert.Contains(t, text, "energy=0 count=12\n")
	assert.Contains(t, text, "site energy signatures over keys [-4,0,4]\n")
	assert.Contains(t, text, "  [1 2 1]: 8\n")
}

func TestRunCommandRendersGridAndParameters(t *testing.T) {
	root := &rootOptions{logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}
	cmd := newRunCmd(root)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--set", "w=3", "--set", "h=2", "--steps", "10", "--params"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Len(t, strings.Fields(lines[0]), 3)
	assert.Len(t, strings.Fields(lines[1]), 3)
	assert.Contains(t, out.String(), "Dynamics\n")
	assert.Contains(t, out.String(), "  beta ")
}

func TestRunCommandRejectsZeroBeta(t *testing.T) {
	root := &rootOptions{logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}
	cmd := newRunCmd(root)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--set", "beta=0"})
	assert.ErrorIs(t, cmd.Execute(), ising.ErrInvalidParameter)
}
