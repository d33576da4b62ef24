package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstructure/pkg/resource"
)

func newDumpCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [path]",
		Short: "Print a content subtree as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			res, err := a.resource(path)
			if err != nil {
				return err
			}
			data, err := resource.Export(res)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
