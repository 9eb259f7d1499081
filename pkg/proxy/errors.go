package proxy

import (
	"errors"
	"net/http"

	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/validation"
)

// HandleError converts err into the body the client should see.
//
// Request decode errors and field errors become a 400 with details, rate
// limit errors a 429 and anything else a generic 500.
func HandleError(err error) StatusCoder {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Status == http.StatusRequestEntityTooLarge {
			return types.NewErrorResponse(reqErr.Status, types.MessageRequestTooLarge)
		}
		return types.NewValidationError(types.FieldDetail{
			Field:   reqErr.Field,
			Message: reqErr.Message,
		})
	}

	var fieldErr validation.FieldError
	if errors.As(err, &fieldErr) {
		return ValidationErrors([]validation.FieldError{fieldErr})
	}

	var limitErr *limits.LimitError
	if errors.As(err, &limitErr) {
		return types.NewRateLimitError(limits.RetryAfterSeconds(limitErr.RetryAfter))
	}

	return types.NewServerError(types.MessageInternalError)
}

// ValidationErrors converts validator output to a 400 body.
func ValidationErrors(errs []validation.FieldError) *types.ValidationErrorResponse {
	details := make([]types.FieldDetail, 0, len(errs))
	for _, fe := range errs {
		details = append(details, types.FieldDetail{
			Field:   fe.Field,
			Message: fe.Message,
			Value:   fe.Value,
		})
	}
	return types.NewValidationError(details...)
}

// SanitizeError returns the body for an unexpected internal error. Outside
// production the error text and optional stack are included for debugging.
func SanitizeError(err error, production bool, stack string) *types.ErrorResponse {
	if production || err == nil {
		return types.NewServerError(types.MessageInternalError)
	}
	resp := types.NewServerError(err.Error())
	resp.Stack = stack
	return resp
}
