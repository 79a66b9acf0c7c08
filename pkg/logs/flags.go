package logs

import "github.com/spf13/pflag"

// Flag names registered by RegisterFlags.
const (
	VerbosityFlag    = "verbosity"
	QuietFlag        = "quiet"
	LogFileFlag      = "log-file"
	LogFileLevelFlag = "log-file-level"
)

// RegisterFlags adds the logging flags to fs. Values are stored in the
// settings SetupLogger reads.
func RegisterFlags(fs *pflag.FlagSet) {
	registerFlags(fs, &settings)
}

func registerFlags(fs *pflag.FlagSet, s *Settings) {
	if fs.Lookup(VerbosityFlag) != nil {
		return
	}

	fs.Var(newLevelValue(&s.Verbosity), VerbosityFlag, "console log verbosity level (stderr): debug|info|warning|error|critical")
	fs.BoolVar(&s.Quiet, QuietFlag, s.Quiet, "don't output logs to stderr")
	fs.StringVar(&s.LogFile, LogFileFlag, s.LogFile, "filename to output logs to, if any")
	fs.Var(newLevelValue(&s.LogFileLevel), LogFileLevelFlag, "logging verbosity level for log file output: debug|info|warning|error|critical")
}
