package cli

import (
	"github.com/spf13/cobra"
)

func NewInspectCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show format, duration and PCM layout without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := deps.App(cmd.Context())
			if err != nil {
				return err
			}
			asset, err := a.Converter.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return deps.Formatter().Asset(asset)
		},
	}
}
