// Package password checks a submitted password against the single expected
// dashboard password.
//
// The expected value is configured either as plaintext or as an Argon2id hash
// in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Both forms are exposed through [Matcher]; comparisons never short-circuit on
// the first differing byte.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords.
//   - Import any other goSession package.
//   - Log plaintext passwords or hash parameters.
package password
