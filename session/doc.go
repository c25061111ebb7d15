// Package session owns the session payload model and its transport encoding.
//
// # Token shape
//
// A session token is two raw base64url segments joined by a single dot:
//
//	base64url(json{"u":username,"exp":unixSeconds}) "." base64url(signature)
//
// This package encodes and decodes the first segment and splits/joins the two
// segments. It has no notion of keys or trust: a decoded [Payload] is only
// meaningful after the caller has checked the signature over the still-encoded
// segment.
//
// # What this package must NOT do
//
//   - Import goSession, signer, or middleware (no upward imports).
//   - Compute or compare signatures.
//   - Read the clock or decide whether a payload has expired.
package session
