// Package cli implements the audiovault cobra commands.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/audiovault/config"
	"github.com/kbukum/audiovault/internal/app"
	"github.com/kbukum/audiovault/internal/output"
	"github.com/kbukum/audiovault/version"
)

// ServiceName selects config search paths and the .env.<name> file.
const ServiceName = "audiovault"

// skipConfig marks commands that run without loading configuration.
const skipConfig = "audiovault/skip-config"

// Dependencies is shared by every command. Config is loaded once flags are
// parsed; App is wired on first use so keygen and friends stay cheap.
type Dependencies struct {
	ConfigFile string
	EnvFile    string
	Output     string

	Stdout io.Writer
	Stderr io.Writer

	Config *config.AppConfig
	// AppOptions are passed to app.New, mainly by tests.
	AppOptions []app.Option

	app *app.App
}

// App returns the wired application, building it on first call.
func (d *Dependencies) App(ctx context.Context) (*app.App, error) {
	if d.app != nil {
		return d.app, nil
	}
	a, err := app.New(ctx, d.Config, d.AppOptions...)
	if err != nil {
		return nil, err
	}
	d.app = a
	return a, nil
}

// Formatter renders to stdout in the selected format.
func (d *Dependencies) Formatter() *output.Formatter {
	f, _ := output.ParseFormat(d.Output)
	return output.NewFormatter(d.Stdout, f)
}

func (d *Dependencies) close(ctx context.Context) {
	if d.app != nil {
		_ = d.app.Close(ctx)
	}
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "audiovault",
		Short: "Turn audio files into encrypted, tamper-evident transcript records",
		Long: "audiovault inspects an audio file, transcribes it, encrypts the transcript " +
			"and appends the result to an append-only JSON store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := output.ParseFormat(deps.Output); err != nil {
				return err
			}
			if cmd.Annotations[skipConfig] != "" || deps.Config != nil {
				return nil
			}
			var opts []config.LoaderOption
			if deps.ConfigFile != "" {
				opts = append(opts, config.WithConfigFile(deps.ConfigFile))
			}
			if deps.EnvFile != "" {
				opts = append(opts, config.WithEnvFile(deps.EnvFile))
			}
			cfg, err := config.Load(ServiceName, opts...)
			if err != nil {
				return err
			}
			deps.Config = cfg
			return nil
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.GetVersionInfo().String() + "\n")
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	if deps.Output == "" {
		deps.Output = string(output.FormatText)
	}
	// Values preset on deps become flag defaults.
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&deps.ConfigFile, "config", "c", deps.ConfigFile, "config file (default: search ./config.yml, ./config/, user config dir, /etc/audiovault)")
	flags.StringVar(&deps.EnvFile, "env-file", deps.EnvFile, "dotenv file loaded before the environment (default: ./.env)")
	flags.StringVarP(&deps.Output, "output", "o", deps.Output, "output format: text or json")

	rootCmd.AddCommand(NewConvertCmd(deps))
	rootCmd.AddCommand(NewRevealCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewInspectCmd(deps))
	rootCmd.AddCommand(NewKeygenCmd(deps))
	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}

// Execute runs the command line and returns the process exit code. Errors
// are printed to stderr in the selected output format.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	deps := &Dependencies{Stdout: stdout, Stderr: stderr}
	return run(ctx, deps, args)
}

func run(ctx context.Context, deps *Dependencies, args []string) int {
	root := NewRootCmd(deps)
	root.SetArgs(args)
	defer deps.close(context.WithoutCancel(ctx))

	if err := root.ExecuteContext(ctx); err != nil {
		f, _ := output.ParseFormat(deps.Output)
		output.NewFormatter(deps.Stderr, f).Error(err)
		return ExitCode(err)
	}
	return 0
}
