package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/audiovault/logger"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	var addr struct {
		host string
		port int
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				deps.Config.Server.Host = addr.host
			}
			if cmd.Flags().Changed("port") {
				deps.Config.Server.Port = addr.port
			}
			if err := deps.Config.Server.Validate(); err != nil {
				return err
			}

			a, err := deps.App(cmd.Context())
			if err != nil {
				return err
			}
			srv := a.NewServer()
			if err := srv.Start(cmd.Context()); err != nil {
				return err
			}
			deps.Formatter().Info("Listening on " + srv.URL())

			<-cmd.Context().Done()
			logger.Get("cli").Info("shutdown requested")
			return srv.Stop(context.WithoutCancel(cmd.Context()))
		},
	}
	cmd.Flags().StringVar(&addr.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&addr.port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}
