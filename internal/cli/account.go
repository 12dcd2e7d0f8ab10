package cli

import (
	"github.com/spf13/cobra"
)

func newForgotPasswordCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email-or-username>",
		Short: "Ask the upstream to send a password reset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := r.resolveCatalog()
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), c.Auth().ForgotPassword(cmd.Context(), args[0]))
		},
	}
}

func newResetPasswordCmd(r *runner) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Complete a password reset with the upstream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := readPayload(cmd, data)
			if err != nil {
				return err
			}
			c, err := r.resolveCatalog()
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), c.Auth().ResetPassword(cmd.Context(), payload))
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", `JSON payload, "@file" or "-" for stdin (required)`)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
