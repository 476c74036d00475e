// Package daemon coordinates the long-running interviewer process.
//
// It wires configuration, the metadata store, object storage, the question
// generator, and the HTTP API into a single lifecycle with flock-based
// locking to prevent multiple instances. Orchestration logic lives here;
// domain behavior belongs to the interview package.
package daemon
