package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	s := New()
	s.Declare(Declaration{Name: "station_id", Default: "bench-1"})
	s.Declare(Declaration{Name: "retries", Default: 3})
	s.Declare(Declaration{Name: "dmm_address", Required: true})

	return s
}

func TestStore_DefaultsAndLoad(t *testing.T) {
	s := newTestStore()

	assert.Equal(t, "bench-1", s.GetString("station_id"))
	assert.Equal(t, 3, s.Get("retries"))

	require.NoError(t, s.Load(map[string]any{"station_id": "bench-2", "retries": 5}))
	assert.Equal(t, map[string]any{"station_id": "bench-2", "retries": 5, "dmm_address": nil}, s.AsDict())
}

func TestStore_LoadUndeclared(t *testing.T) {
	s := newTestStore()

	err := s.Load(map[string]any{"station_id": "bench-2", "zeta": 1, "alpha": 2})
	require.ErrorIs(t, err, ErrUndeclaredKey)
	assert.Contains(t, err.Error(), "alpha, zeta")
	assert.Equal(t, "bench-1", s.GetString("station_id"), "nothing loaded on error")
}

func TestStore_DeclareTwiceKeepsFirst(t *testing.T) {
	s := newTestStore()
	s.Declare(Declaration{Name: "retries", Default: 10})

	assert.Equal(t, 3, s.Get("retries"))
	assert.Len(t, s.Declarations(), 3)
	assert.Equal(t, "dmm_address", s.Declarations()[0].Name)
}

func TestStore_Validate(t *testing.T) {
	s := newTestStore()
	require.ErrorIs(t, s.Validate(), ErrMissingRequired)

	require.NoError(t, s.Load(map[string]any{"dmm_address": "usb0"}))
	require.NoError(t, s.Validate())
}

func TestStore_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "station.yaml")
	require.NoError(t, os.WriteFile(path, []byte("station_id: line-7\nretries: 9\n"), 0o600))

	s := newTestStore()
	require.NoError(t, s.LoadFile(path))
	assert.Equal(t, "line-7", s.GetString("station_id"))
	assert.Equal(t, 9, s.Get("retries"))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("unknown: 1\n"), 0o600))
	require.ErrorIs(t, s.LoadFile(bad), ErrUndeclaredKey)

	require.Error(t, s.LoadFile(filepath.Join(dir, "missing.yaml")))
}

func TestStore_Env(t *testing.T) {
	t.Setenv("HTF_STATION_ID", "from-env")

	s := newTestStore()
	assert.Equal(t, "from-env", s.GetString("station_id"))
}

func TestStore_Flags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "station.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retries: 4\n"), 0o600))

	s := newTestStore()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	s.RegisterFlags(fs)
	s.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--config-file", path,
		"--config-value", "station_id=bench-9",
		"--config-value=dmm_address=usb1",
	}))

	assert.Equal(t, 4, s.Get("retries"))
	assert.Equal(t, "bench-9", s.GetString("station_id"))
	assert.Equal(t, "usb1", s.GetString("dmm_address"))

	require.Error(t, fs.Parse([]string{"--config-value", "novalue"}))
}

func TestDefaultStore_StationID(t *testing.T) {
	host, err := os.Hostname()
	require.NoError(t, err)

	s := newDefault()
	assert.Equal(t, host, s.GetString(StationIDKey))
	assert.Contains(t, s.AsDict(), StationIDKey)
}
