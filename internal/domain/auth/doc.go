// Package auth issues and verifies sessions and API keys. Session
// tokens are random bearer tokens; API key secrets are bcrypt-hashed
// at rest and shown to the caller exactly once.
package auth
