// Package server exposes the conversion pipeline over a gin JSON API.
//
// Handlers only translate HTTP to converter calls and back; conversions and
// reveals are funneled through a single worker slot so the pipeline sees one
// request at a time. Errors are rendered from AppError.ToResponse with the
// status derived from the error code.
//
//	srv := server.New(cfg, log)
//	srv.ApplyMiddleware()
//	srv.RegisterDefaultEndpoints("audiovault", checker)
//	server.NewAPI(conv, log).Register(srv.GinEngine(), cfg.AuthSecret)
//	srv.Start(ctx)
package server
