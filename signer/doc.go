// Package signer computes and checks the keyed MAC that binds a session
// payload segment to the server secret.
//
// The MAC is HMAC-SHA256, computed through golang-jwt's HS256 signing method so
// the comparison path is the same constant-time hmac.Equal that JWT
// verification uses. Signatures are exchanged in the strict raw base64url
// alphabet shared with the session package.
package signer
