package goSession

import (
	"context"

	"github.com/MrEthical07/goSession/internal/audit"
)

const (
	auditEventLoginSuccess     = "login_success"
	auditEventLoginFailure     = "login_failure"
	auditEventLoginRateLimited = "login_rate_limited"
	auditEventLogout           = "logout"
	auditEventSessionIssued    = "session_issued"
	auditEventSessionRejected  = "session_rejected"
	auditEventLimiterError     = "rate_limiter_error"
)

// emitAudit builds the event lazily; metadataBuilder is not called when
// auditing is off.
func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := audit.NewEvent(eventType, e.now())
	event.Username = username
	event.RequestID = RequestIDFromContext(ctx)
	event.IP = ClientIPFromContext(ctx)
	event.Success = success
	if metadataBuilder != nil {
		event.Metadata = metadataBuilder()
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = code
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if kind := KindOf(err); kind != KindUnknown {
		return kind.String()
	}
	return "internal_error"
}
