// Package apiclient is the HTTP client for the interviewer daemon API. The
// CLI uses it to manage rooms, sessions, and question rounds over the
// daemon's JSON envelope protocol.
package apiclient
