package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/audiovault/audio"
)

func NewConvertCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <file>",
		Short: "Inspect, transcribe, encrypt and store an audio file",
		Long: "Runs the full pipeline on one file (" + formatList() + ") and appends " +
			"a record to the store. Nothing is stored when any stage fails.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := deps.App(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := a.Converter.Convert(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return deps.Formatter().Converted(rec)
		},
	}
}

// formatList renders the supported formats as "a, b or c".
func formatList() string {
	formats := audio.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
