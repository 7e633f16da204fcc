package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-cellbook/internal/logging"
	"github.com/mattsolo1/grove-cellbook/pkg/runner"
	"github.com/mattsolo1/grove-cellbook/pkg/service"
)

var cfgFile string

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "cellbook")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CELLBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := service.DefaultConfig()
	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "cellbook"))
	viper.SetDefault("editor", os.Getenv("EDITOR"))
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("storage.driver", defaults.StorageDriver)
	viper.SetDefault("default_language", defaults.DefaultLanguage)
	viper.SetDefault("runner.timeout", defaults.Runner.Timeout)
	viper.SetDefault("runner.python_delay", defaults.Runner.PythonDelay)
	viper.SetDefault("assistant.delay_scale", defaults.AssistantDelayScale)
	viper.SetDefault("presence.interval", defaults.PresenceInterval)
	viper.SetDefault("whiteboard.width", defaults.WhiteboardWidth)
	viper.SetDefault("whiteboard.height", defaults.WhiteboardHeight)
	viper.SetDefault("whiteboard.max_history", defaults.WhiteboardMaxHistory)
	viper.SetDefault("export.frontmatter", defaults.ExportFrontmatter)

	if err := viper.ReadInConfig(); err == nil {
		logging.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// InitLogging applies the configured log level to the shared logger
func InitLogging() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logging.ParseLevel(viper.GetString("log_level")))
	logging.SetLogger(logger)
	return logger
}

func InitService() (*service.Service, error) {
	config := &service.Config{
		DataDir:         viper.GetString("data_dir"),
		StorageDriver:   viper.GetString("storage.driver"),
		Editor:          viper.GetString("editor"),
		DefaultLanguage: viper.GetString("default_language"),
		Runner: runner.Config{
			Timeout:     viper.GetDuration("runner.timeout"),
			PythonDelay: viper.GetDuration("runner.python_delay"),
		},
		AssistantDelayScale:  viper.GetFloat64("assistant.delay_scale"),
		PresenceInterval:     viper.GetDuration("presence.interval"),
		WhiteboardWidth:      viper.GetInt("whiteboard.width"),
		WhiteboardHeight:     viper.GetInt("whiteboard.height"),
		WhiteboardMaxHistory: viper.GetInt("whiteboard.max_history"),
		ExportFrontmatter:    viper.GetBool("export.frontmatter"),
	}

	return service.New(config, service.WithLogger(logging.Logger()))
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cellbook/config.yaml)")
}
