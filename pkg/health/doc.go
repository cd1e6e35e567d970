// Package health serves liveness and readiness probes.
//
// Readiness runs every named check concurrently under one timeout. The
// storage backends contribute checks: the Redis ping, the Postgres ping
// and the job manager state. The response is plain text, or JSON when the
// client asks for it with ?format=json or an Accept header.
package health
