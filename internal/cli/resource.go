package cli

import (
	"github.com/spf13/cobra"
)

func newResourcesCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the configured resource names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := r.resolveCatalog()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c.Names())
		},
	}
}

func newGetCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Fetch one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := r.resource(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cl.FetchOne(cmd.Context(), args[1]))
		},
	}
}

func newListCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list <resource>",
		Short: "Fetch every record of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := r.resource(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cl.FetchAll(cmd.Context()))
		},
	}
}

func newChildrenCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "children <resource> <parent> <parent-id>",
		Short: "Fetch the records belonging to a parent",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := r.resource(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cl.FetchByParent(cmd.Context(), args[1], args[2]))
		},
	}
}

func newLookupCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <resource> <key> <value>",
		Short: "Fetch one record by a secondary key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := r.resource(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cl.Lookup(cmd.Context(), args[1], args[2]))
		},
	}
}

func newCreateCmd(r *runner) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, data)
			if err != nil {
				return err
			}
			cl, err := r.resource(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cl.Create(cmd.Context(), payload))
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", `JSON payload, "@file" or "-" for stdin (required)`)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newUpdateCmd(r *runner) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Update a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, data)
			if err != nil {
				return err
			}
			cl, err := r.resource(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cl.Update(cmd.Context(), args[1], payload))
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", `JSON payload, "@file" or "-" for stdin (required)`)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := r.resource(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), cl.Delete(cmd.Context(), args[1]))
		},
	}
}
