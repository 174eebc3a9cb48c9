// Package analytics is the ML model registry: model and training-job
// metadata with lifecycle transitions, score distribution summaries,
// and the HTTP client for the scoring service.
package analytics
