package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// requestID makes sure every request carries an id, generating one when the
// client sent none, and echoes it in the response.
func requestID(ctx huma.Context, next func(huma.Context)) {
	id := ctx.Header(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	ctx.SetHeader(requestIDHeader, id)
	next(huma.WithValue(ctx, requestIDKey{}, id))
}

// ctxlog is a [context.Context] key and acts as a virtual package for operations related to it.
type ctxlog struct{}

// loggerMiddleware returns a middleware that sets a [slog.Logger] in
// the [context.Context] and logs the request after it has terminated.
// PATCH requests also log the patch media type.
func (key ctxlog) loggerMiddleware(parent *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		id, _ := ctx.Context().Value(requestIDKey{}).(string)
		logger := parent.With("x-request-id", id)

		start := time.Now()
		next(huma.WithValue(ctx, key, logger.WithGroup("op").With("id", op.OperationID)))

		attrs := []slog.Attr{
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		}
		if ref := ctx.Header("Referer"); ref != "" {
			attrs = append(attrs, slog.String("ref", ref))
		}
		if op.Method == http.MethodPatch {
			attrs = append(attrs, slog.String("ct", ctx.Header("Content-Type")))
		}
		logger.LogAttrs(context.Background(), slog.LevelInfo,
			joinSpace(op.Method, op.Path, ctx.Version().Proto), attrs...)
	}
}

// recoverMiddleware returns a middleware that recovers and logs the value from panic.
// Also sets status response to [http.StatusInternalServerError].
func (key ctxlog) recoverMiddleware(fallback *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			if v := recover(); v != nil {
				key.from(ctx.Context(), fallback).LogAttrs(context.Background(), slog.LevelError,
					"panic occurred", slog.Any("recovered", v))
				ctx.SetStatus(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

// errorHandler returns a function that gets the [slog.Logger] from [context.Context] and logs the error.
// The level follows the status class: 5XX at error, 4XX at warn, 3XX at info.
func (key ctxlog) errorHandler(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level, attrs := slog.LevelError, []slog.Attr{slog.Any("err", err)}

		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.GetStatus() / 100 {
			case 4: //nolint: mnd // 4XX HTTP Status Codes
				level = slog.LevelWarn
			case 3: //nolint: mnd // 3XX HTTP Status Codes
				level = slog.LevelInfo
			}
			attrs = append(attrs, slog.Int("status", statusErr.GetStatus()))
		}

		key.from(ctx, fallback).LogAttrs(context.Background(), level, "error occurred", attrs...)
	}
}

func (key ctxlog) from(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(key).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// meterRequests counts and times requests per operation and status.
func meterRequests(set *metrics.Set) func(huma.Context, func(huma.Context)) {
	buckets := metrics.ExponentialBuckets(1e-3, 5, 6) //nolint: mnd // 1ms to ~3s
	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()
		next(ctx)

		labels := joinQuote("{method=", op.Method, ",path=", op.Path, ",status=", strconv.Itoa(ctx.Status()), "}")
		set.GetOrCreateCounter("http_requests_total" + labels).Inc()
		set.GetOrCreatePrometheusHistogramExt("http_request_duration_seconds"+labels, buckets).UpdateDuration(start)
	}
}
