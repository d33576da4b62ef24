package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInspectCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Show how a resource relates to its form",
		Long: `Shows the resource type chain of a resource, whether the form structure
helper manages it, the form container it belongs to and the form elements
found beneath it.`,
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

			out := cmd.OutOrStdout()
			formPath := "-"
			if container := a.helper.GetFormResource(res); container != nil {
				formPath = container.Path()
			}
			fmt.Fprintf(out, "path:       %s\n", res.Path())
			fmt.Fprintf(out, "type:       %s\n", strings.Join(a.tree.SuperTypeChain(res), " > "))
			fmt.Fprintf(out, "can manage: %t\n", a.helper.CanManage(res))
			fmt.Fprintf(out, "form:       %s\n", formPath)

			fmt.Fprintln(out, "elements:")
			count := 0
			for element := range a.helper.GetFormElements(res) {
				fmt.Fprintf(out, "  %s\n", element.Path())
				count++
			}
			if count == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			return nil
		},
	}
}
