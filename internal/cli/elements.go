package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type elementView struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	ResourceType string `json:"resourceType"`
}

func newElementsCmd(load loader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "elements <path>",
		Short: "List the form elements beneath a resource",
		Args:  cobra.ExactArgs(1),
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
			if !asJSON {
				for element := range a.helper.GetFormElements(res) {
					fmt.Fprintln(out, element.Path())
				}
				return nil
			}

			views := []elementView{}
			for element := range a.helper.GetFormElements(res) {
				views = append(views, elementView{
					Name:         element.Name(),
					Path:         element.Path(),
					ResourceType: element.ResourceType(),
				})
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print elements as JSON")
	return cmd
}
