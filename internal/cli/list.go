package cli

import (
	"github.com/spf13/cobra"
)

func NewListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := deps.App(cmd.Context())
			if err != nil {
				return err
			}
			list, err := a.Converter.ListRecords(cmd.Context())
			if err != nil {
				return err
			}
			return deps.Formatter().Records(list)
		},
	}
}
