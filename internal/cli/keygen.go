package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/audiovault/encryption"
)

func NewKeygenCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a new random 256-bit key for CRYPTO_KEY",
		Long: "Prints a new key in URL-safe base64. Keep it outside the store: " +
			"records cannot be revealed without it.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := encryption.GenerateKey()
			if err != nil {
				return err
			}
			return deps.Formatter().Key(key)
		},
	}
}
