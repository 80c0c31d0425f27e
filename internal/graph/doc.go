// Package graph builds the dependency graph of a task batch: forward edges
// (task -> tasks waiting on it) and in-degree counts for Kahn-style draining.
package graph
