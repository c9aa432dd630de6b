// Package shared holds code used across packages that belongs to no
// single layer. Today that is testutil, the slog capture helpers used by
// package tests.
package shared
