// Package runtime executes resolved plans and records their outcome.
package runtime
