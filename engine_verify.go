package goSession

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/signer"
)

// Verify checks token and returns its payload. Checks short-circuit in a
// fixed order:
//
//  1. no secret configured: [ErrConfiguration]
//  2. not two non-empty segments: [ErrMalformedToken]
//  3. signature undecodable, wrong length or mismatched: [ErrBadSignature]
//  4. payload undecodable: [ErrMalformedToken]
//  5. expiry at or before now: [ErrExpired]
//
// The payload is never parsed before its signature is verified. Failure
// reasons go to metrics and audit only.
func (e *Engine) Verify(ctx context.Context, token string) (*session.Payload, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricVerifyLatency, time.Since(start)) }()
	}

	p, err := e.verify(token)
	if err != nil {
		e.recordRejection(ctx, err)
		return nil, err
	}

	e.metricInc(MetricVerifySuccess)
	return &p, nil
}

func (e *Engine) verify(token string) (session.Payload, error) {
	secret := e.secret()
	if len(secret) == 0 {
		return session.Payload{}, ErrConfiguration
	}

	payloadSeg, sigSeg, err := session.SplitToken(token)
	if err != nil {
		return session.Payload{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	sig, err := signer.DecodeSignature(sigSeg)
	if err != nil {
		return session.Payload{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if err := signer.Check(secret, payloadSeg, sig); err != nil {
		return session.Payload{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	p, err := session.Decode(payloadSeg)
	if err != nil {
		return session.Payload{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if p.ExpiresAt <= e.now().Unix() {
		return session.Payload{}, ErrExpired
	}

	return p, nil
}

func (e *Engine) recordRejection(ctx context.Context, err error) {
	kind := KindOf(err)
	switch kind {
	case KindConfiguration:
		e.metricInc(MetricVerifyMisconfigured)
	case KindMalformedToken:
		e.metricInc(MetricVerifyMalformed)
	case KindBadSignature:
		e.metricInc(MetricVerifyBadSignature)
	case KindExpired:
		e.metricInc(MetricVerifyExpired)
	}
	e.emitAudit(ctx, auditEventSessionRejected, false, "", err, nil)
}
