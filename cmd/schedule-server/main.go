package main

import (
	"fmt"
	"os"

	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/spf13/cobra"
)

func recoverFromError() {
	if r := recover(); r != nil {
		fmt.Printf("It looks like there are some serious errors, the details are as follows: %v", r)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           global.AppName,
		Short:         "Notice board and schedule server",
		Version:       global.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.BoolVar(&global.DebugMode, "debug", global.DebugMode, "Enable debug mode")
	flags.StringVar(&global.ConfigFilePath, "config", global.ConfigFilePath, "Path to configuration file")
	flags.BoolVar(&global.SkipEmailVerification, "skip_email_verification", global.SkipEmailVerification, "Skip email verification")

	root.AddCommand(newServeCommand(), newRoutesCommand(), newCallCommand())
	return root
}

func main() {
	defer recoverFromError()

	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
