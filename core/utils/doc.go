// Package utils holds small conversion helpers for loosely typed JSON
// returned by third-party panels.
package utils
