package main

import (
	"os"

	"github.com/spf13/cobra"
)

const programName = "buttonpoll"

var (
	globalFlags = struct {
		debug bool
	}{}
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Telegram polls that keep their votes in the buttons",
		SilenceUsage: true,
		RunE:         serveRun,
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to YAML config file")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(decodeCommand())

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
