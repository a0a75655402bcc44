// Package jobs holds the background processors started by the API server.
// Each processor runs on a ticker, is safe to Start and Stop more than once,
// and exposes RunOnce for manual triggers and tests.
package jobs
