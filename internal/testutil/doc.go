// Package testutil contains helper environments and builders used across
// tests to reduce boilerplate when exercising runners, wrappers and the
// registry. These helpers are intentionally minimal and not intended for
// production usage.
package testutil
