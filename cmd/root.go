package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ReCoderDojoEniwa/HomePage/internal/config"
	"github.com/ReCoderDojoEniwa/HomePage/internal/errors"
)

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
	logger    = slog.Default()
)

// flagKeys maps command-line flags to config keys so flags override file and env values.
var flagKeys = map[string]string{
	"source":    "sourceDir",
	"output":    "outputDir",
	"fail-fast": "failFast",
	"report":    "reportPath",
	"port":      "port",
}

var rootCmd = &cobra.Command{
	Use:   "braw",
	Short: "braw - turns .braw blog sources into static HTML",
	Long: `braw reads one .braw source per folder under the source directory,
renders each into an HTML page using the page template and assembles
an index page from the index template.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return initializeConfig(cmd)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if code := errors.NewCLIErrorAdapter(verbose, logger).Handle(err); code != 0 {
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	for key, value := range config.Defaults() {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BRAW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "bind flag --"+flag)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to read config file")
		}
		if cfgFile != "" {
			return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal,
				fmt.Sprintf("config file %s not found", cfgFile))
		}
		logger.Debug("No config file found, using defaults and environment")
	} else {
		logger.Debug("Using config file", slog.String("path", v.ConfigFileUsed()))
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "unable to decode config")
	}
	return nil
}
