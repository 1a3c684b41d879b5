package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/observability"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := deps.App(cmd.Context())
			if err != nil {
				return err
			}
			f := deps.Formatter()

			checks := a.Checks(cmd.Context())
			if err := f.Checks(checks); err != nil {
				return err
			}

			ok := true
			for _, c := range checks {
				if c.Status != observability.HealthStatusUp {
					ok = false
				}
			}
			if !ok {
				f.Warning("Some prerequisites are missing.")
				return apperrors.Validation("doctor found missing prerequisites")
			}
			f.Success("All prerequisites met.")
			return nil
		},
	}
}
