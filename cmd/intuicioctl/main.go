// Command intuicioctl is a thin demonstration front-end over the core: it
// builds a registry, registers the standard trivial types, and exercises
// the VM interpreter against a handful of built-in sample scripts. It
// exists to give the core a runnable surface, not as a real scripting
// front-end - a real one would implement nativizer.Visitor against its own
// parser.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	logLevel      string
	indexCapacity int
	logger        *zap.Logger
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "intuicioctl",
		Short:         "Inspect and exercise the Intuicio scripting core",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.IntVar(&indexCapacity, "index-capacity", 0, "registry LRU query cache capacity (0 uses the default)")

	viper.SetEnvPrefix("INTUICIOCTL")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("index-capacity", flags.Lookup("index-capacity"))

	root.AddCommand(newRunCommand())
	root.AddCommand(newTypesCommand())
	root.AddCommand(newFunctionsCommand())

	return root
}

func initLogger() error {
	level := viper.GetString("log-level")
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	built, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = built
	return nil
}
