package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstructure/pkg/action"
)

func newSubmitCmd(load loader) *cobra.Command {
	var (
		rawValues []string
		write     string
	)

	cmd := &cobra.Command{
		Use:   "submit <form>",
		Short: "Submit values to a form through its action",
		Long: `Submits name=value pairs to a form container. The container's action type
selects the handler; the default store action validates the values against
the form fields and stores them under the action target.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(rawValues)
			if err != nil {
				return err
			}
			a, err := load()
			if err != nil {
				return err
			}
			res, err := a.resource(args[0])
			if err != nil {
				return err
			}

			entry, err := action.SubmitForm(cmd.Context(), a.helper, a.actions, res, values)
			if err != nil {
				var verr *action.ValidationError
				if errors.As(err, &verr) {
					errOut := cmd.ErrOrStderr()
					for _, issue := range verr.Issues {
						fmt.Fprintf(errOut, "  %s: %s\n", issueField(issue.Field), issue.Message)
					}
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stored %s\n", entry.Path())
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
	cmd.Flags().StringArrayVarP(&rawValues, "value", "v", nil, "submitted value as name=value (repeatable)")
	cmd.Flags().StringVar(&write, "write", "", "write the updated content tree to a YAML file")
	return cmd
}

func parseValues(raw []string) (map[string]any, error) {
	values := make(map[string]any, len(raw))
	for _, pair := range raw {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("cli: invalid value %q, expected name=value", pair)
		}
		values[name] = value
	}
	return values, nil
}

func issueField(field string) string {
	if field == "" {
		return "(form)"
	}
	return field
}
