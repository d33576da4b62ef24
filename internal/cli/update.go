package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstructure/pkg/form"
)

func newUpdateCmd(load loader, prompter Prompter) *cobra.Command {
	var (
		yes   bool
		write string
	)

	cmd := &cobra.Command{
		Use:   "update <path>",
		Short: "Fill in the action type and action target of a form container",
		Long: `Sets the default action type and a generated action target on a form
container when they are blank. Existing values are kept. Use --write to save
the updated content as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			res, err := a.resource(args[0])
			if err != nil {
				return err
			}
			if !a.helper.IsFormContainer(res) {
				return fmt.Errorf("cli: %s is not a form container", res.Path())
			}

			if !yes {
				ok, err := prompter.Confirm(cmd.Context(), ConfirmConfig{
					Message: fmt.Sprintf("Update form structure of %s?", res.Path()),
					Default: true,
				})
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Update cancelled.")
					return nil
				}
			}

			if err := a.helper.UpdateFormStructure(cmd.Context(), res); err != nil {
				return err
			}

			props := res.ValueMap()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", form.PropActionType, props.GetString(form.PropActionType))
			fmt.Fprintf(out, "%s: %s\n", form.PropAction, props.GetString(form.PropAction))

			if write == "" {
				return nil
			}
			if err := a.writeTree(write); err != nil {
				return err
			}
			fmt.Fprintf(out, "Content written to %s\n", write)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringVar(&write, "write", "", "write the updated content tree to a YAML file")
	return cmd
}
