package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/half-nothing/simple-schedule/internal/api/procedure"
	"github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/spf13/cobra"
)

func newCallCommand() *cobra.Command {
	var username string
	command := &cobra.Command{
		Use:   "call <path> [json]",
		Short: "Call a procedure in process, optionally as an existing user",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.cleaner.Clean()

			ctx := procedure.NewContext(cmd.Context(), "127.0.0.1", "cli")
			if username != "" {
				user, err := app.content.Operations().UserOperation().GetUserByUsername(username)
				if err != nil {
					return fmt.Errorf("load user %s: %w", username, err)
				}
				jwtConfig := app.content.ConfigManager().Config().Server.HttpServer.JWT
				ctx = ctx.WithClaims(service.NewClaims(jwtConfig, user, false))
			}

			var input any
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return errors.New("input is not valid json")
				}
				input = json.RawMessage(args[1])
			}

			output, err := app.router.CreateCaller(ctx).Call(args[0], input)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(output)
		},
	}
	command.Flags().StringVar(&username, "as", "", "Username to call the procedure as")
	return command
}
