package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/oaiiae/huma-contacts-patch/cli/api"
	"github.com/oaiiae/huma-contacts-patch/cli/logger"
	"github.com/oaiiae/huma-contacts-patch/datastores"
)

// Set with -ldflags "-X main.version=... -X main.revision=... -X main.created=...".
var (
	version  = "dev"
	revision = ""
	created  = ""
)

// Options for the CLI. Pass `--server-port` or set the `SERVICE_SERVER_PORT` env var.
type Options struct {
	Logger logger.Options
	Server api.ServerOptions
	Router api.RouterOptions
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		log := logger.New(&options.Logger)
		srv := api.NewServer(&options.Server, api.NewRouter(&options.Router,
			api.BuildInfo{Title: "Contacts API", Version: version, Revision: revision, Created: created},
			datastores.NewContactsInmem(),
			log,
		), log)
		hooks.OnStart(func() {
			log.Info("listening", "addr", srv.Addr)
			err := srv.ListenAndServe()
			if err != http.ErrServerClosed {
				log.Error("failed to listen and serve", "err", err)
			} else {
				log.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				log.Warn("could not shutdown the server", slog.Any("err", err))
			}
		})
	})
	cli.Run()
}
