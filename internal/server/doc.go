// Package server provides the MCP server context and the metrics server.
//
// ServerContext owns the retriever shared by all MCP tools. The retriever is
// created on first use from a RetrieverFactory and invocations are
// serialised through WithRetriever.
//
// MetricsServer exposes Prometheus metrics on /metrics and, with a
// HealthChecker, liveness (/healthz) and readiness (/readyz) endpoints. The
// readiness check fails while no credential is stored.
package server
