package handlers

import (
	"log/slog"
	"net/http"

	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/middleware"
	"fud-buddy/gateway/pkg/validation"
)

// admission holds what every chat endpoint runs before calling the
// service.
type admission struct {
	validator *validation.Validator
	limiter   *limits.Limiter
}

// admit decodes, validates and rate limits r. When it returns false the
// response has already been written.
func (a admission) admit(w http.ResponseWriter, r *http.Request) (chat.Request, bool) {
	ctx := r.Context()

	raw, err := proxy.DecodeChatRequest(r)
	if err != nil {
		slog.WarnContext(ctx, "rejected request body", "error", err)
		_ = proxy.WriteError(w, proxy.HandleError(err))
		return chat.Request{}, false
	}

	result := a.validator.Validate(raw)
	if !result.Valid {
		fields := make([]string, 0, len(result.Errors))
		for _, fe := range result.Errors {
			fields = append(fields, fe.Field)
		}
		slog.WarnContext(ctx, "validation failed", "fields", fields, "reason", result.Errors[0].Message)
		_ = proxy.WriteError(w, proxy.ValidationErrors(result.Errors))
		return chat.Request{}, false
	}

	if a.limiter != nil && !middleware.Admit(ctx, w, a.limiter) {
		return chat.Request{}, false
	}

	return result.Request, true
}
