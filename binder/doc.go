// Package binder decodes HTTP request bodies into typed values for the
// handler package.
//
// BindJSON requires an application/json content type, decodes exactly one
// JSON value, and bounds the body size. Every failure wraps one of the
// package sentinels so callers can map them to a 400 response:
//
//	if errors.Is(err, binder.ErrInvalidJSON) { ... }
package binder
