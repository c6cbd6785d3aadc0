package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 15, cfg.Settings.PageSize)
	assert.Equal(t, "seeders_desc", cfg.Settings.DefaultSortOrder)
	assert.True(t, cfg.Settings.ShowAdultContent)
	assert.True(t, cfg.Settings.ConfirmDownloads)
	assert.Equal(t, 30, cfg.Settings.ResultsPerPage)
	assert.Equal(t, "normal", cfg.Settings.DisplayDensity)
	assert.True(t, cfg.Settings.EnableNotifications)
	assert.Equal(t, 30, cfg.Settings.CacheDuration)
	assert.False(t, cfg.HasCredentials())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", FileName)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_CorruptFileReturnsDefaultsWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, Default(), cfg)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "parse", cfgErr.Op)
	assert.Equal(t, path, cfgErr.Path)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)

	cfg := Default()
	cfg.ServerURL = "http://prowlarr.lan:9696"
	cfg.APIKey = "secret"
	cfg.QBittorrentURL = "http://qbit.lan:8080"
	cfg.Theme.Primary = "#ff8800"
	cfg.Theme.Preset = "custom"
	cfg.Settings.PageSize = 20
	cfg.Settings.DefaultSortOrder = "size_desc"
	cfg.Settings.ShowAdultContent = false
	cfg.Settings.DisplayDensity = "compact"
	cfg.Settings.NotificationSound = true

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSave_KeepsUnknownSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `{"serverUrl":"http://x:9696","apiKey":"k","settings":{"pageSize":40,"futureOption":{"on":true},"legacyFlag":"yes"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Settings.PageSize)
	require.Len(t, cfg.Settings.Extra, 2)

	cfg.Settings.PageSize = 25
	require.NoError(t, Save(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved struct {
		Settings map[string]json.RawMessage `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(raw, &saved))
	assert.JSONEq(t, `{"on":true}`, string(saved.Settings["futureOption"]))
	assert.JSONEq(t, `"yes"`, string(saved.Settings["legacyFlag"]))
	assert.JSONEq(t, `25`, string(saved.Settings["pageSize"]))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, reloaded.Settings.PageSize)
	assert.JSONEq(t, `{"on":true}`, string(reloaded.Settings.Extra["futureOption"]))
}

func TestLoad_PartialFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `{"serverUrl":"http://x:9696","apiKey":"k","settings":{"pageSize":40}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://x:9696", cfg.ServerURL)
	assert.Equal(t, 40, cfg.Settings.PageSize)
	assert.Equal(t, "seeders_desc", cfg.Settings.DefaultSortOrder)
	assert.True(t, cfg.Settings.ConfirmDownloads)
	assert.Equal(t, "cyan", cfg.Theme.Primary)
	assert.True(t, cfg.HasCredentials())
}

func TestLoad_NormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `{"settings":{"pageSize":-1,"displayDensity":"huge","defaultSortOrder":"random","searchTimeout":0},
	          "theme":{"preset":"neon"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	d := DefaultSettings()
	assert.Equal(t, d.PageSize, cfg.Settings.PageSize)
	assert.Equal(t, d.DisplayDensity, cfg.Settings.DisplayDensity)
	assert.Equal(t, d.DefaultSortOrder, cfg.Settings.DefaultSortOrder)
	assert.Equal(t, d.SearchTimeout, cfg.Settings.SearchTimeout)
	assert.Equal(t, "custom", cfg.Theme.Preset)
}

func TestSave_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	err := Save(filepath.Join(blocker, FileName), Default())

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "write", cfgErr.Op)
}
