// Package server exposes the interview daemon's JSON API over HTTP.
//
// All responses share one envelope: {success, code, message, data,
// timestamp}. Domain sentinel errors from internal/interview map onto HTTP
// status codes here; handlers stay thin and delegate to the interview
// service.
package server
