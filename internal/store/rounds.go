package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateRound appends a round to a session. The round index is the session's
// current round count, so indexes stay dense regardless of deletions
// elsewhere. The question payload location is recorded on the row.
func (s *Store) CreateRound(ctx context.Context, sessionID, questionsObject string, questionsCount int, roundType RoundType) (*Round, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var index int
	row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM rounds WHERE session_id = ?`, sessionID)
	if err := row.Scan(&index); err != nil {
		return nil, fmt.Errorf("count rounds: %w", err)
	}

	id := uuid.NewString()
	now := timestamp(time.Now())
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO rounds (id, session_id, round_index, questions_count, questions_object,
                             round_type, current_question_index, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		id, sessionID, index, questionsCount, questionsObject, string(roundType), string(StatusActive), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit round: %w", err)
	}

	return s.GetRound(ctx, id)
}

// SetRoundQuestionsObject records where the round's question payload lives.
func (s *Store) SetRoundQuestionsObject(ctx context.Context, roundID, key string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE rounds SET questions_object = ?, updated_at = ? WHERE id = ?`,
		key, timestamp(time.Now()), roundID,
	)
	if err != nil {
		return fmt.Errorf("set round questions object: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetRound fetches a round by identifier. Returns nil when not found.
func (s *Store) GetRound(ctx context.Context, id string) (*Round, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roundColumns+` FROM rounds WHERE id = ?`, id)
	round, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get round: %w", err)
	}
	return round, nil
}

// RoundsBySession returns a session's rounds ordered by round index.
func (s *Store) RoundsBySession(ctx context.Context, sessionID string) ([]*Round, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE session_id = ? ORDER BY round_index ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// RoundBySessionIndex fetches the round at a given index within a session.
// Returns nil when no round has that index.
func (s *Store) RoundBySessionIndex(ctx context.Context, sessionID string, index int) (*Round, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE session_id = ? AND round_index = ?`,
		sessionID, index,
	)
	round, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("round by index: %w", err)
	}
	return round, nil
}

// CompleteRound marks a round completed and, when no active rounds remain in
// its session, completes the session as well. Reports whether the session
// transitioned. Already-completed rounds are left untouched.
func (s *Store) CompleteRound(ctx context.Context, roundID string) (sessionCompleted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var sessionID string
	row := tx.QueryRowContext(ctx, `SELECT session_id FROM rounds WHERE id = ?`, roundID)
	if err := row.Scan(&sessionID); err != nil {
		return false, fmt.Errorf("lookup round session: %w", err)
	}

	now := timestamp(time.Now())
	_, err = tx.ExecContext(
		ctx,
		`UPDATE rounds SET status = ?, updated_at = ? WHERE id = ? AND status != ?`,
		string(StatusCompleted), now, roundID, string(StatusCompleted),
	)
	if err != nil {
		return false, fmt.Errorf("complete round: %w", err)
	}

	var active int
	row = tx.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM rounds WHERE session_id = ? AND status = ?`,
		sessionID, string(StatusActive),
	)
	if err := row.Scan(&active); err != nil {
		return false, fmt.Errorf("count active rounds: %w", err)
	}

	if active == 0 {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ? AND status != ?`,
			string(StatusCompleted), now, sessionID, string(StatusCompleted),
		)
		if err != nil {
			return false, fmt.Errorf("complete session: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("rows affected: %w", err)
		}
		sessionCompleted = affected > 0
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit completion: %w", err)
	}
	return sessionCompleted, nil
}

const roundColumns = "id, session_id, round_index, questions_count, questions_object, round_type, current_question_index, status, created_at, updated_at"

func scanRound(scanner interface{ Scan(dest ...any) error }) (*Round, error) {
	var (
		id              string
		sessionID       string
		roundIndex      int
		questionsCount  int
		questionsObject string
		roundType       string
		currentIndex    int
		status          string
		createdRaw      string
		updatedRaw      string
	)
	err := scanner.Scan(&id, &sessionID, &roundIndex, &questionsCount, &questionsObject,
		&roundType, &currentIndex, &status, &createdRaw, &updatedRaw)
	if err != nil {
		return nil, err
	}

	round := &Round{
		ID:                   id,
		SessionID:            sessionID,
		RoundIndex:           roundIndex,
		QuestionsCount:       questionsCount,
		QuestionsObject:      questionsObject,
		RoundType:            RoundType(roundType),
		CurrentQuestionIndex: currentIndex,
		Status:               Status(status),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		round.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		round.UpdatedAt = updated
	}
	return round, nil
}
