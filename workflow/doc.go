// Package workflow provides the workflow state registry: named, tracked
// multi-step business operations spanning multiple record calls, each
// optionally linked to a session and carrying an append-only step history.
package workflow
