// Package conf holds station configuration. Keys must be declared before they
// are loaded; values come from defaults, YAML files, HTF_* environment
// variables and --config-value flags, in increasing precedence.
package conf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for configuration environment variables.
const EnvPrefix = "HTF"

// StationIDKey names the station every test record is stamped with.
const StationIDKey = "station_id"

var (
	// ErrUndeclaredKey is returned when loading a key that was never declared.
	ErrUndeclaredKey = errors.New("undeclared configuration key")
	// ErrMissingRequired is returned by Validate for required keys with no value.
	ErrMissingRequired = errors.New("missing required configuration key")
)

// Declaration describes one configuration key.
type Declaration struct {
	Name        string
	Description string
	Default     any
	Required    bool
}

// Store is a set of declared keys backed by a viper instance.
type Store struct {
	mu       sync.RWMutex
	v        *viper.Viper
	declared map[string]Declaration
}

// New returns an empty store reading HTF_* environment variables.
func New() *Store {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return &Store{v: v, declared: make(map[string]Declaration)}
}

// Declare registers a key. Declaring the same key twice keeps the first
// declaration.
func (s *Store) Declare(d Declaration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.declared[d.Name]; ok {
		slog.Debug("Configuration key already declared", "key", d.Name)
		return
	}

	s.declared[d.Name] = d
	if d.Default != nil {
		s.v.SetDefault(d.Name, d.Default)
	}
}

// Declarations lists every declared key, sorted by name.
func (s *Store) Declarations() []Declaration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Declaration, 0, len(s.declared))
	for _, d := range s.declared {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// Load sets values for declared keys. Nothing is set when any key is undeclared.
func (s *Store) Load(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var undeclared []string

	for k := range values {
		if _, ok := s.declared[k]; !ok {
			undeclared = append(undeclared, k)
		}
	}

	if len(undeclared) > 0 {
		sort.Strings(undeclared)
		return fmt.Errorf("%w: %s", ErrUndeclaredKey, strings.Join(undeclared, ", "))
	}

	for k, v := range values {
		s.v.Set(k, v)
	}

	return nil
}

// LoadFile loads a YAML mapping of declared keys.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := s.Load(values); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	slog.Debug("Loaded configuration", "path", path, "keys", len(values))

	return nil
}

// LoadValue parses a key=value pair, as given to --config-value.
func (s *Store) LoadValue(pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	if !ok || key == "" {
		return fmt.Errorf("invalid config value %q, expected key=value", pair)
	}

	var parsed any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil || parsed == nil {
		parsed = value
	}

	return s.Load(map[string]any{key: parsed})
}

// Get returns the resolved value of key.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.v.Get(key)
}

// GetString returns the resolved value of key as a string.
func (s *Store) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.v.GetString(key)
}

// Validate checks that every required key has a value.
func (s *Store) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string

	for name, d := range s.declared {
		if d.Required && !s.v.IsSet(name) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	return nil
}

// AsDict returns a snapshot of every declared key's resolved value.
func (s *Store) AsDict() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.declared))
	for name := range s.declared {
		out[name] = s.v.Get(name)
	}

	return out
}

var std = newDefault()

func newDefault() *Store {
	s := New()

	station, err := os.Hostname()
	if err != nil {
		station = "unknown_station"
	}

	s.Declare(Declaration{
		Name:        StationIDKey,
		Description: "The name of this test station",
		Default:     station,
	})

	return s
}

// Default returns the process-wide store.
func Default() *Store { return std }

// Declare registers a key on the process-wide store.
func Declare(d Declaration) { std.Declare(d) }

// Load sets values on the process-wide store.
func Load(values map[string]any) error { return std.Load(values) }

// LoadFile loads a YAML file into the process-wide store.
func LoadFile(path string) error { return std.LoadFile(path) }

// Get reads a value from the process-wide store.
func Get(key string) any { return std.Get(key) }

// StationID returns the configured station name.
func StationID() string { return std.GetString(StationIDKey) }

// AsDict snapshots the process-wide store.
func AsDict() map[string]any { return std.AsDict() }
