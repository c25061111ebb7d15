package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// ResultLabel is the single label used by counter families.
const ResultLabel = "result"

// BucketCount matches the engine's latency histogram.
const BucketCount = 8

// CounterDef maps one engine counter onto a series. Counters sharing a Name
// form one family distinguished by their Result label value; an empty Result
// means the series is unlabeled.
type CounterDef struct {
	ID     goSession.MetricID
	Name   string
	Help   string
	Result string
}

type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// Family is a run of CounterDefs with the same name, in declaration order.
type Family struct {
	Name string
	Help string
	Defs []CounterDef
}

const (
	loginHelp  = "Login attempts by outcome."
	verifyHelp = "Session verifications by outcome."
)

// CounterDefs lists every exported counter. Members of a family are adjacent.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_total", Help: loginHelp, Result: "success"},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_total", Help: loginHelp, Result: "invalid_credentials"},
	{ID: goSession.MetricLoginRateLimited, Name: "gosession_login_total", Help: loginHelp, Result: "rate_limited"},
	{ID: goSession.MetricLoginMisconfigured, Name: "gosession_login_total", Help: loginHelp, Result: "configuration"},
	{ID: goSession.MetricVerifySuccess, Name: "gosession_verify_total", Help: verifyHelp, Result: "ok"},
	{ID: goSession.MetricVerifyMalformed, Name: "gosession_verify_total", Help: verifyHelp, Result: "malformed_token"},
	{ID: goSession.MetricVerifyBadSignature, Name: "gosession_verify_total", Help: verifyHelp, Result: "bad_signature"},
	{ID: goSession.MetricVerifyExpired, Name: "gosession_verify_total", Help: verifyHelp, Result: "expired"},
	{ID: goSession.MetricVerifyMisconfigured, Name: "gosession_verify_total", Help: verifyHelp, Result: "configuration"},
	{ID: goSession.MetricSessionIssued, Name: "gosession_sessions_issued_total", Help: "Session tokens issued."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Logout requests."},
	{ID: goSession.MetricRateLimiterError, Name: "gosession_login_limiter_errors_total", Help: "Login limiter backend errors; the attempt was allowed."},
}

var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricVerifyLatency, Name: "gosession_verify_latency_seconds", Help: "Session verification latency."},
}

// AuditDroppedName is the counter for events the audit dispatcher discarded.
const (
	AuditDroppedName = "gosession_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped because the dispatcher buffer was full."
)

// HistogramBounds are the upper bounds in seconds of the engine's
// microsecond buckets.
var HistogramBounds = [BucketCount]string{
	"0.00001",
	"0.000025",
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"+Inf",
}

// HistogramBoundSuffix names the per-bucket OTel gauges.
var HistogramBoundSuffix = [BucketCount]string{
	"10us",
	"25us",
	"50us",
	"100us",
	"250us",
	"500us",
	"1ms",
	"inf",
}

// Families groups CounterDefs by name.
func Families() []Family {
	var out []Family
	for _, def := range CounterDefs {
		if n := len(out); n > 0 && out[n-1].Name == def.Name {
			out[n-1].Defs = append(out[n-1].Defs, def)
			continue
		}
		out = append(out, Family{Name: def.Name, Help: def.Help, Defs: []CounterDef{def}})
	}
	return out
}

// NormalizeBuckets pads or truncates raw to BucketCount entries.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	copy(out[:], raw)
	return out
}

func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
