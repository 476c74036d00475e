package objectstore

import "fmt"

// Object keys share a per-room prefix so deleting a room or session reduces
// to removing one prefix.

// ResumeKey returns the key for a room's parsed résumé document.
func ResumeKey(roomID string) string {
	return fmt.Sprintf("rooms/%s/resume.json", roomID)
}

// JDKey returns the key for a room's job-description document.
func JDKey(roomID string) string {
	return fmt.Sprintf("rooms/%s/jd.json", roomID)
}

// QuestionsKey returns the key for a round's generated question list.
func QuestionsKey(roomID, sessionID string, roundIndex int) string {
	return fmt.Sprintf("rooms/%s/sessions/%s/questions/round_%d.json", roomID, sessionID, roundIndex)
}

// AnalysisKey returns the key for a round's completed question/answer record.
func AnalysisKey(roomID, sessionID string, roundIndex int) string {
	return fmt.Sprintf("rooms/%s/sessions/%s/analysis/qa_complete_%d.json", roomID, sessionID, roundIndex)
}

// ReportKey returns the key for a round's evaluation report. Reports live
// outside the room prefix so they survive room deletion.
func ReportKey(sessionID string, roundIndex int) string {
	return fmt.Sprintf("reports/evaluation_%d_%s.json", roundIndex, sessionID)
}

// RoomPrefix returns the prefix covering every object belonging to a room.
func RoomPrefix(roomID string) string {
	return fmt.Sprintf("rooms/%s/", roomID)
}

// SessionPrefix returns the prefix covering every object belonging to a session.
func SessionPrefix(roomID, sessionID string) string {
	return fmt.Sprintf("rooms/%s/sessions/%s/", roomID, sessionID)
}
