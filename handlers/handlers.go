package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oaiiae/huma-contacts-patch/patch"
	"github.com/oaiiae/huma-contacts-patch/validation"
)

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}

	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

// invalidError reports each violation as an error detail located in the body.
func invalidError(err *validation.Error) huma.StatusError {
	details := make([]error, 0, len(err.Violations))
	for _, v := range err.Violations {
		details = append(details, &huma.ErrorDetail{
			Message:  v.Message,
			Location: "body." + v.Field,
		})
	}
	return huma.Error422UnprocessableEntity("validation failed", details...)
}

// patchError translates the errors of the patch core to client errors.
// Malformed documents are bad requests, documents that cannot be applied to
// the current state are unprocessable (or conflicting, for a failed test).
func patchError(err error) error {
	var (
		malformed  *patch.MalformedPatchError
		notFound   *patch.PathNotFoundError
		testFailed *patch.TestFailedError
		mismatch   *patch.TypeMismatchError
		invalid    *validation.Error
	)
	switch {
	case errors.As(err, &malformed):
		return huma.Error400BadRequest("malformed patch document", err)
	case errors.As(err, &notFound):
		return huma.Error422UnprocessableEntity("patch path not found", &huma.ErrorDetail{
			Message:  err.Error(),
			Location: "body",
			Value:    notFound.Path,
		})
	case errors.As(err, &testFailed):
		return huma.Error409Conflict("patch test failed", err)
	case errors.As(err, &mismatch):
		detail := &huma.ErrorDetail{Message: err.Error(), Location: "body"}
		if mismatch.Field != "" {
			detail.Location = "body." + mismatch.Field
		}
		return huma.Error422UnprocessableEntity("patched contact does not fit the contact shape", detail)
	case errors.As(err, &invalid):
		return invalidError(invalid)
	default:
		return err
	}
}

// patchResult names the outcome of a patch for metric labels.
func patchResult(err error) string {
	var (
		malformed  *patch.MalformedPatchError
		notFound   *patch.PathNotFoundError
		testFailed *patch.TestFailedError
		mismatch   *patch.TypeMismatchError
		invalid    *validation.Error
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &notFound):
		return "path_not_found"
	case errors.As(err, &testFailed):
		return "test_failed"
	case errors.As(err, &mismatch):
		return "type_mismatch"
	case errors.As(err, &invalid):
		return "invalid"
	default:
		return "error"
	}
}
