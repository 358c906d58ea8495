// Package translation translates captions between languages through an
// external backend (MyMemory or OpenAI). Failures are always reported as
// errors; an empty string is never returned as a successful translation.
package translation
