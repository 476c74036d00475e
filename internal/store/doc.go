// Package store persists interview metadata in SQLite.
//
// Rooms own sessions, sessions own question rounds, and rounds own
// question/answer rows. Foreign keys are declared ON DELETE CASCADE so
// removing a room or session removes every dependent row in one statement.
// Question payloads themselves live in object storage; the store only keeps
// the object key alongside each round.
package store
