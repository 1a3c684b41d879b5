package cli

import (
	"github.com/spf13/cobra"
)

func NewRevealCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <id>",
		Short: "Decrypt and print the transcript of a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := deps.App(cmd.Context())
			if err != nil {
				return err
			}
			text, err := a.Converter.RevealByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return deps.Formatter().Revealed(args[0], text)
		},
	}
}
