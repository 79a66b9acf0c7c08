package htf

import (
	"os"
	"sync"

	"github.com/spf13/pflag"

	"htf.dev/pkg/htf/pkg/conf"
	"htf.dev/pkg/htf/pkg/logs"
	"htf.dev/pkg/htf/pkg/triggers"
)

var (
	parseOnce sync.Once
	parseErr  error

	commandLineArgs = func() []string { return os.Args[1:] }
)

// RegisterFlags adds the configuration, trigger and logging flags to fs.
// Flags already present are left alone.
func RegisterFlags(fs *pflag.FlagSet) {
	conf.RegisterFlags(fs)
	triggers.RegisterFlags(fs)
	logs.RegisterFlags(fs)
}

// NewFlagSet returns a flag set with every framework flag registered.
// Applications add their own flags before parsing.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	RegisterFlags(fs)

	return fs
}

// ParseFlags parses the process arguments into the framework settings. Only
// the first call parses; later calls return the same result. Unknown flags
// are ignored so applications can define their own.
func ParseFlags() error {
	parseOnce.Do(func() {
		fs := NewFlagSet(os.Args[0])
		fs.Usage = func() {}
		parseErr = fs.Parse(commandLineArgs())
	})

	return parseErr
}
