package session

// Payload is the only identity carried across requests. It is built by the
// issuer and treated as immutable afterwards.
type Payload struct {
	Username  string
	ExpiresAt int64
}

// wirePayload is the JSON form. Pointer fields let Decode tell a missing field
// from a zero value.
type wirePayload struct {
	Username  *string `json:"u"`
	ExpiresAt *int64  `json:"exp"`
}
