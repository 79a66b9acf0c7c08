package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"htf.dev/pkg/htf/pkg/conf"
	"htf.dev/pkg/htf/pkg/logs"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "htf"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputDirFlagName = "output-dir"
	countFlagName     = "count"
	promptFlagName    = "prompt"
	httpPortFlagName  = "http-port"

	outputDirKey = "run.output_dir"
	runCountKey  = "run.count"
	runPromptKey = "run.prompt"
	httpPortKey  = "run.http_port"
	stationIDKey = "station.id"

	defaultOutputDir = ""
	defaultRunCount  = 1
	defaultRunPrompt = false
	defaultHTTPPort  = 0

	envPrefix = conf.EnvPrefix

	logFilenameKey  = "log.filename"
	logLevelKey     = "log.level"
	logFileLevelKey = "log.file_level"
	logQuietKey     = "log.quiet"

	defaultLogFilename  = ""
	defaultLogLevel     = "warning"
	defaultLogFileLevel = "warning"
	defaultLogQuiet     = false
)

// frameworkFlagKeys maps framework flags to the config keys that feed them
// when they are not given on the command line.
var frameworkFlagKeys = map[string]string{
	logs.LogFileFlag:      logFilenameKey,
	logs.VerbosityFlag:    logLevelKey,
	logs.LogFileLevelFlag: logFileLevelKey,
	logs.QuietFlag:        logQuietKey,
}

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputDirKey, defaultOutputDir)
	viper.SetDefault(runCountKey, defaultRunCount)
	viper.SetDefault(runPromptKey, defaultRunPrompt)
	viper.SetDefault(httpPortKey, defaultHTTPPort)
	viper.SetDefault(stationIDKey, "")

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logFileLevelKey, defaultLogFileLevel)
	viper.SetDefault(logQuietKey, defaultLogQuiet)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// applyConfigToFlags feeds config and environment values into framework
// flags the user did not set explicitly.
func applyConfigToFlags(fs *pflag.FlagSet) error {
	for name, key := range frameworkFlagKeys {
		flag := fs.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}

		value := viper.GetString(key)
		if value == "" || value == flag.Value.String() {
			continue
		}

		if err := flag.Value.Set(value); err != nil {
			return fmt.Errorf("invalid %s in config: %w", key, err)
		}
	}

	return nil
}

// applyStationConfig copies CLI-level station settings into the framework
// configuration store.
func applyStationConfig() error {
	id := viper.GetString(stationIDKey)
	if id == "" {
		return nil
	}

	return conf.Load(map[string]any{conf.StationIDKey: id})
}
