// Package ingestion turns uploaded legal documents into indexed chunks.
//
// A document flows through three stages: clause-aware chunking, batched
// embedding on a worker pool, and a single partition transaction that commits
// vectors and records together. Embedding calls never hold a partition lock.
// The pipeline also handles version replacement, expiry stamping, and
// deletion, keeping the document metadata repository in step with the
// partition files.
package ingestion
