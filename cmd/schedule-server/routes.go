package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRoutesCommand() *cobra.Command {
	var pathsOnly bool
	command := &cobra.Command{
		Use:   "routes",
		Short: "Print the composed router shape as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.cleaner.Clean()

			out := cmd.OutOrStdout()
			shape := app.router.Shape()
			if pathsOnly {
				for _, path := range app.router.Paths() {
					procedure, _ := shape.Lookup(path)
					_, _ = fmt.Fprintf(out, "%-10s %s\n", procedure.Kind, path)
				}
				return nil
			}
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(shape)
		},
	}
	command.Flags().BoolVar(&pathsOnly, "paths", false, "Only print procedure kinds and paths")
	return command
}
