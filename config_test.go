package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fl := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFlags(fl)
	require.NoError(t, fl.Parse(args))
	return fl
}

func TestReadConfigDefaults(t *testing.T) {
	conf, err := readConfig(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Addr:       "127.0.0.1:8080",
		LogFormat:  "simple",
		Watch:      true,
		WindowIdle: 10 * time.Minute,
	}, conf)
}

func TestReadConfigFlags(t *testing.T) {
	conf, err := readConfig(newFlags(t, "--addr", ":9000", "--config-dir", "/tmp/cfg", "--max-history", "20", "--watch=false", "--window-idle", "30s"))
	require.NoError(t, err)

	assert.Equal(t, ":9000", conf.Addr)
	assert.Equal(t, "/tmp/cfg", conf.ConfigDir)
	assert.Equal(t, 20, conf.MaxHistory)
	assert.False(t, conf.Watch)
	assert.Equal(t, 30*time.Second, conf.WindowIdle)
}

func TestReadConfigEnv(t *testing.T) {
	t.Setenv("ACRN_CONFIG_DIR", "/env/cfg")
	t.Setenv("ACRN_LOG_FORMAT", "json")
	t.Setenv("ACRN_WINDOW_IDLE", "0")

	conf, err := readConfig(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "/env/cfg", conf.ConfigDir)
	assert.Equal(t, "json", conf.LogFormat)
	assert.Zero(t, conf.WindowIdle)
}

func TestVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--version"})
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), version)
}
