// Package security holds the credential primitives behind login and the
// request gatekeeper: bcrypt password hashing, HS256 access tokens, opaque
// refresh tokens and the refresh-token check.
package security
