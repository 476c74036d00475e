package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionInput is a generated question waiting to be stored for a round.
type QuestionInput struct {
	Text     string
	Category string
}

// CreateQuestionAnswers records a round's questions in a single transaction.
// Question indexes are assigned in input order starting at zero.
func (s *Store) CreateQuestionAnswers(ctx context.Context, roundID string, questions []QuestionInput) ([]*QuestionAnswer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp(time.Now())
	for i, question := range questions {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO question_answers (id, round_id, question_index, question_text,
                                           answer_text, category, answered, created_at, updated_at)
             VALUES (?, ?, ?, ?, NULL, ?, 0, ?, ?)`,
			uuid.NewString(), roundID, i, question.Text, nullableString(question.Category), now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit questions: %w", err)
	}

	return s.QuestionAnswersByRound(ctx, roundID)
}

// QuestionAnswersByRound returns a round's questions ordered by index.
func (s *Store) QuestionAnswersByRound(ctx context.Context, roundID string) ([]*QuestionAnswer, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+questionAnswerColumns+` FROM question_answers
         WHERE round_id = ? ORDER BY question_index ASC`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("list question answers: %w", err)
	}
	defer rows.Close()

	var items []*QuestionAnswer
	for rows.Next() {
		item, err := scanQuestionAnswer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextUnanswered returns the first unanswered question at or after the
// round's current cursor. Returns nil when the round is exhausted.
func (s *Store) NextUnanswered(ctx context.Context, roundID string) (*QuestionAnswer, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+questionAnswerColumns+` FROM question_answers
         WHERE round_id = ? AND answered = 0
           AND question_index >= (SELECT current_question_index FROM rounds WHERE id = ?)
         ORDER BY question_index ASC LIMIT 1`,
		roundID, roundID,
	)
	item, err := scanQuestionAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next unanswered: %w", err)
	}
	return item, nil
}

// SaveAnswer records the answer for a question and advances the round cursor
// past it. The cursor only moves forward.
func (s *Store) SaveAnswer(ctx context.Context, roundID string, questionIndex int, answer string) (*QuestionAnswer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp(time.Now())
	res, err := tx.ExecContext(
		ctx,
		`UPDATE question_answers SET answer_text = ?, answered = 1, updated_at = ?
         WHERE round_id = ? AND question_index = ?`,
		answer, now, roundID, questionIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}

	_, err = tx.ExecContext(
		ctx,
		`UPDATE rounds SET current_question_index = ?, updated_at = ?
         WHERE id = ? AND current_question_index < ?`,
		questionIndex+1, now, roundID, questionIndex+1,
	)
	if err != nil {
		return nil, fmt.Errorf("advance cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit answer: %w", err)
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+questionAnswerColumns+` FROM question_answers
         WHERE round_id = ? AND question_index = ?`,
		roundID, questionIndex,
	)
	item, err := scanQuestionAnswer(row)
	if err != nil {
		return nil, fmt.Errorf("reload answer: %w", err)
	}
	return item, nil
}

const questionAnswerColumns = "id, round_id, question_index, question_text, answer_text, category, answered, created_at, updated_at"

func scanQuestionAnswer(scanner interface{ Scan(dest ...any) error }) (*QuestionAnswer, error) {
	var (
		id            string
		roundID       string
		questionIndex int
		questionText  string
		answerText    sql.NullString
		category      sql.NullString
		answered      int
		createdRaw    string
		updatedRaw    string
	)
	err := scanner.Scan(&id, &roundID, &questionIndex, &questionText,
		&answerText, &category, &answered, &createdRaw, &updatedRaw)
	if err != nil {
		return nil, err
	}

	item := &QuestionAnswer{
		ID:            id,
		RoundID:       roundID,
		QuestionIndex: questionIndex,
		QuestionText:  questionText,
		AnswerText:    answerText.String,
		Category:      category.String,
		Answered:      answered != 0,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}
