// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent. Invalid input yields an empty result rather
// than an error; validation decides whether empty is acceptable.
package sanitizer
