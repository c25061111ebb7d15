package goSession

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/signer"
)

// IssuedSession is a freshly signed token and the cookie lifetime that goes
// with it.
type IssuedSession struct {
	Token     string
	MaxAge    int
	ExpiresAt time.Time
}

// Issue signs a token for username that expires TTL from now.
//
// It returns [ErrConfiguration] when no secret is configured and
// [ErrInvalidUsername] for an empty username or one longer than
// [session.MaxUsernameBytes]. The clock is read once.
func (e *Engine) Issue(ctx context.Context, username string) (IssuedSession, error) {
	if e == nil {
		return IssuedSession{}, ErrEngineNotReady
	}
	secret := e.secret()
	if len(secret) == 0 {
		return IssuedSession{}, ErrConfiguration
	}
	if username == "" {
		return IssuedSession{}, ErrInvalidUsername
	}
	if len(username) > session.MaxUsernameBytes {
		return IssuedSession{}, fmt.Errorf("%w: longer than %d bytes", ErrInvalidUsername, session.MaxUsernameBytes)
	}

	ttlSeconds := int64(e.config.Session.TTL / time.Second)
	exp := e.now().Unix() + ttlSeconds

	payloadSeg, err := session.Encode(session.Payload{Username: username, ExpiresAt: exp})
	if err != nil {
		return IssuedSession{}, fmt.Errorf("encode session: %w", err)
	}
	sig, err := signer.Sign(secret, payloadSeg)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("sign session: %w", err)
	}

	e.metricInc(MetricSessionIssued)
	e.emitAudit(ctx, auditEventSessionIssued, true, username, nil, nil)

	return IssuedSession{
		Token:     session.JoinToken(payloadSeg, signer.EncodeSignature(sig)),
		MaxAge:    int(ttlSeconds),
		ExpiresAt: time.Unix(exp, 0),
	}, nil
}
