// Package interview implements the domain services behind the HTTP API:
// rooms, sessions, question rounds, and answers.
//
// A room binds one candidate résumé to any number of interview sessions.
// Each session holds a sequence of question rounds; a round is generated by
// the LLM from the résumé and walked question by question. Metadata lives in
// the SQLite store, documents (résumé, round payloads, completed Q&A) in the
// object store.
//
// Service methods return sentinel errors (ErrRoomNotFound, ErrResumeRequired,
// ErrAnalysisMissing, ...) that the HTTP layer maps onto status codes.
package interview
