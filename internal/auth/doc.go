// Package auth validates the Hugging Face access token before any model is
// used. The token is checked once per run against the whoami endpoint.
package auth
