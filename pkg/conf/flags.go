package conf

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags.
const (
	ConfigFileFlag  = "config-file"
	ConfigValueFlag = "config-value"
)

// fileValue loads a YAML file into a store as soon as the flag is parsed.
type fileValue struct {
	store *Store
	path  string
}

func (f *fileValue) String() string { return f.path }

func (f *fileValue) Set(path string) error {
	if err := f.store.LoadFile(path); err != nil {
		return err
	}

	f.path = path

	return nil
}

func (f *fileValue) Type() string { return "file" }

// pairValue loads key=value pairs into a store.
type pairValue struct {
	store *Store
	pairs []string
}

func (p *pairValue) String() string { return fmt.Sprint(p.pairs) }

func (p *pairValue) Set(pair string) error {
	if err := p.store.LoadValue(pair); err != nil {
		return err
	}

	p.pairs = append(p.pairs, pair)

	return nil
}

func (p *pairValue) Type() string { return "key=value" }

// RegisterFlags adds --config-file and --config-value for the process-wide
// store to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	std.RegisterFlags(fs)
}

// RegisterFlags adds --config-file and --config-value for s to fs.
func (s *Store) RegisterFlags(fs *pflag.FlagSet) {
	if fs.Lookup(ConfigFileFlag) != nil {
		return
	}

	fs.Var(&fileValue{store: s}, ConfigFileFlag, "YAML file with configuration values to load")
	fs.Var(&pairValue{store: s}, ConfigValueFlag, "configuration value as key=value (can be repeated)")
}
