package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/darasa-lms/darasa/core/progress"
)

type progressRepository struct {
	db   *sqlx.DB
	exec sqlx.ExtContext // tx-bound inside Atomic, the pool otherwise
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *sqlx.DB) *progressRepository {
	return &progressRepository{db: db, exec: db}
}

type progressRow struct {
	ID        string        `db:"id"`
	StudentID string        `db:"student_id"`
	LectureID string        `db:"lecture_id"`
	Completed bool          `db:"completed"`
	Score     sql.NullInt64 `db:"score"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func (r progressRow) toProgress() progress.Progress {
	rec := progress.Progress{
		ID:        r.ID,
		StudentID: r.StudentID,
		LectureID: r.LectureID,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Score.Valid {
		score := int(r.Score.Int64)
		rec.Score = &score
	}
	return rec
}

func toProgressRecords(rows []progressRow) []progress.Progress {
	records := make([]progress.Progress, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toProgress())
	}
	return records
}

func (repo *progressRepository) GetProgress(ctx context.Context, studentID, lectureID string) (progress.Progress, error) {
	var row progressRow
	err := sqlx.GetContext(ctx, repo.exec, &row,
		`SELECT * FROM progress WHERE student_id = $1 AND lecture_id = $2`, studentID, lectureID)
	if err != nil {
		return progress.Progress{}, trapNoRowsErr(err, progress.ErrNotFound, "finding progress")
	}
	return row.toProgress(), nil
}

func (repo *progressRepository) QueryProgressByLectureIDs(ctx context.Context, studentID string, lectureIDs []string) ([]progress.Progress, error) {
	if len(lectureIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT * FROM progress WHERE student_id = ? AND lecture_id IN (?)`, studentID, lectureIDs)
	if err != nil {
		return nil, trapStoreErr(err, "building progress query")
	}

	var rows []progressRow
	err = sqlx.SelectContext(ctx, repo.exec, &rows, repo.exec.Rebind(query), args...)
	if err != nil {
		return nil, trapStoreErr(err, "querying progress by lectures")
	}
	return toProgressRecords(rows), nil
}

func (repo *progressRepository) QueryCourseProgress(ctx context.Context, studentID, courseID string) ([]progress.Progress, error) {
	var rows []progressRow
	err := sqlx.SelectContext(ctx, repo.exec, &rows,
		`SELECT p.* FROM progress p
		 JOIN lecture l ON l.id = p.lecture_id
		 WHERE p.student_id = $1 AND l.course_id = $2`, studentID, courseID)
	if err != nil {
		return nil, trapStoreErr(err, "querying course progress")
	}
	return toProgressRecords(rows), nil
}

// UpsertProgress relies on the unique (student_id, lecture_id) key: a create
// race degrades to an update, so concurrent calls serialize to last-write-wins
// without surfacing duplicate-key errors.
func (repo *progressRepository) UpsertProgress(ctx context.Context, rec progress.Progress) (progress.Progress, error) {
	var score sql.NullInt64
	if rec.Score != nil {
		score = sql.NullInt64{Int64: int64(*rec.Score), Valid: true}
	}

	var row progressRow
	err := sqlx.GetContext(ctx, repo.exec, &row,
		`INSERT INTO progress (id, student_id, lecture_id, completed, score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 ON CONFLICT (student_id, lecture_id)
		 DO UPDATE SET completed = EXCLUDED.completed, score = EXCLUDED.score, updated_at = now()
		 RETURNING *`,
		uuid.New().String(), rec.StudentID, rec.LectureID, rec.Completed, score,
	)
	if err != nil {
		return progress.Progress{}, trapStoreErr(err, "upserting progress")
	}
	return row.toProgress(), nil
}

func (repo *progressRepository) Atomic(ctx context.Context, fn func(progress.Repository) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return trapStoreErr(err, "beginning transaction")
	}
	if err := fn(&progressRepository{db: repo.db, exec: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return trapStoreErr(tx.Commit(), "committing transaction")
}
