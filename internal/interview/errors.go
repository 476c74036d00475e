package interview

import "errors"

var (
	// ErrRoomNotFound reports an unknown room identifier.
	ErrRoomNotFound = errors.New("room not found")
	// ErrSessionNotFound reports an unknown session identifier.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRoundNotFound reports an unknown round identifier or index.
	ErrRoundNotFound = errors.New("round not found")
	// ErrQuestionNotFound reports that a round has no question at the
	// requested index, or no unanswered question left.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidInput reports a request payload that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrResumeRequired is returned when an operation needs the room's
	// résumé and none has been uploaded.
	ErrResumeRequired = errors.New("resume required")
	// ErrResumeNotFound reports that the room has no stored résumé.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrAnalysisMissing gates round completion: the completed Q&A object
	// for the round does not exist yet.
	ErrAnalysisMissing = errors.New("qa object missing")
	// ErrReportMissing reports that no evaluation report has been
	// generated for the round.
	ErrReportMissing = errors.New("report not found")
)
