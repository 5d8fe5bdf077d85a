package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "CHATLENS_FOLDER", "CHATLENS_TIMEZONE", "CHATLENS_WATCH_DIR",
		"CHATLENS_LOG_LEVEL", "CHATLENS_MAX_UPLOAD_MB", "CHATLENS_TOP_N",
	} {
		t.Setenv(key, "")
	}
	// Keep the user's own config file out of the way
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port = "9090"
env = "production"
folder = "exports"
timezone = "UTC"
max_upload_mb = 8
top_n = 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "exports", cfg.Folder)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 8, cfg.MaxUploadMB)
	assert.Equal(t, 5, cfg.TopN)
	assert.False(t, cfg.IsDevelopment())
	// Unset keys keep their defaults
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port = \"9090\"\ntop_n = 5\n")
	t.Setenv("PORT", "7070")
	t.Setenv("CHATLENS_TOP_N", "20")
	t.Setenv("CHATLENS_TIMEZONE", "Europe/London")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 20, cfg.TopN)
	assert.Equal(t, "Europe/London", cfg.Timezone)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad toml", file: "port = ", wantErr: "failed to parse config"},
		{name: "bad int", env: map[string]string{"CHATLENS_MAX_UPLOAD_MB": "lots"}, wantErr: "invalid CHATLENS_MAX_UPLOAD_MB"},
		{name: "zero upload", file: "max_upload_mb = 0", wantErr: "max_upload_mb must be positive"},
		{name: "negative top", env: map[string]string{"CHATLENS_TOP_N": "-1"}, wantErr: "top_n must be positive"},
		{name: "bad timezone", file: `timezone = "Mars/Base"`, wantErr: "invalid timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
