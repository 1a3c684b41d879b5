package app

import (
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/server"
)

// NewServer builds the HTTP adapter over the app's converter.
func (a *App) NewServer() *server.Server {
	srv := server.New(a.Config.Server, logger.Get("server"))
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(a.Config.Name, a.Checks)
	server.NewAPI(a.Converter, logger.Get("api")).Register(srv.GinEngine(), a.Config.Server.AuthSecret)
	return srv
}
