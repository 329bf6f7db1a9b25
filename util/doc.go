// Package util holds small helpers shared across packages: human-readable
// sizes, secret masking for logs, and Coalesce.
package util
