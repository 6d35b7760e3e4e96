package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/oaiiae/huma-contacts-patch/datastores"
	"github.com/oaiiae/huma-contacts-patch/handlers"
	"github.com/oaiiae/huma-contacts-patch/router"
	"github.com/oaiiae/huma-contacts-patch/validation"
)

type ServerOptions struct {
	Host              string        `short:"H" doc:"host to listen on"                    default:""`
	Port              string        `short:"p" doc:"port to listen on"                    default:"8888"`
	ReadHeaderTimeout time.Duration `          doc:"time allowed to read request headers" default:"15s"`
	IdleTimeout       time.Duration `          doc:"keep-alive connections idle limit"    default:"2m"`
}

func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              options.Host + ":" + options.Port,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		IdleTimeout:       options.IdleTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

type RouterOptions struct {
	EndpointsPrefix string `doc:"mount endpoints at a prefix" default:"/api"`
}

// BuildInfo describes the running binary in the build_info metric.
type BuildInfo struct {
	Title    string
	Version  string
	Revision string
	Created  string
}

func (b BuildInfo) metric() string {
	return joinQuote("build_info{goversion=", runtime.Version(),
		",title=", b.Title,
		",version=", b.Version,
		",revision=", b.Revision,
		",created=", b.Created,
		"} 1\n")
}

// NewRouter serves the contacts resource of store under the endpoints prefix,
// with request logging to logger and metrics at /metrics.
func NewRouter(
	options *RouterOptions,
	build BuildInfo,
	store datastores.ContactsStore,
	logger *slog.Logger,
) http.Handler {
	buildinfo, set := build.metric(), metrics.NewSet()
	contacts := &handlers.Contacts{
		Store:        store,
		Validator:    validation.New(),
		Metrics:      set,
		ErrorHandler: ctxlog{}.errorHandler(logger),
	}

	return router.New(build.Title, build.Version,
		func(http.ResponseWriter, *http.Request) {},
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, buildinfo)
			set.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		router.OptUseMiddleware(
			requestID,
			ctxlog{}.loggerMiddleware(logger),
			meterRequests(set),
			ctxlog{}.recoverMiddleware(logger),
		),
		router.OptGroup(options.EndpointsPrefix,
			router.OptGroup("/contacts", router.OptAutoRegister(contacts)),
		),
	)
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }

// joinSpace is [strings.Join] with space as separator.
func joinSpace(elems ...string) string { return strings.Join(elems, ` `) }
