package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core/progress"
)

type progressRepository struct {
	db *DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) *progressRepository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetProgress(ctx context.Context, studentID, lectureID string) (progress.Progress, error) {
	repo.db.progress.RLock()
	defer repo.db.progress.RUnlock()

	if rec, ok := repo.db.progress.table[progressKey{studentID, lectureID}]; ok {
		return *rec, nil
	}
	return progress.Progress{}, progress.ErrNotFound
}

func (repo *progressRepository) QueryProgressByLectureIDs(ctx context.Context, studentID string, lectureIDs []string) ([]progress.Progress, error) {
	repo.db.progress.RLock()
	defer repo.db.progress.RUnlock()

	records := make([]progress.Progress, 0, len(lectureIDs))
	for _, id := range lectureIDs {
		if rec, ok := repo.db.progress.table[progressKey{studentID, id}]; ok {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (repo *progressRepository) QueryCourseProgress(ctx context.Context, studentID, courseID string) ([]progress.Progress, error) {
	repo.db.course.RLock()
	lectureIDs := make([]string, 0)
	for _, lec := range repo.db.course.lectures {
		if lec.CourseID == courseID {
			lectureIDs = append(lectureIDs, lec.ID)
		}
	}
	repo.db.course.RUnlock()

	return repo.QueryProgressByLectureIDs(ctx, studentID, lectureIDs)
}

func (repo *progressRepository) UpsertProgress(ctx context.Context, rec progress.Progress) (progress.Progress, error) {
	repo.db.progress.Lock()
	defer repo.db.progress.Unlock()

	now := time.Now().UTC()
	key := progressKey{rec.StudentID, rec.LectureID}
	if orig, ok := repo.db.progress.table[key]; ok {
		orig.Completed = rec.Completed
		orig.Score = rec.Score
		orig.UpdatedAt = now
		return *orig, nil
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	repo.db.progress.table[key] = &rec
	return rec, nil
}

// Atomic serializes closures instead of opening a real transaction;
// good enough for the in-memory store.
func (repo *progressRepository) Atomic(ctx context.Context, fn func(progress.Repository) error) error {
	repo.db.txmu.Lock()
	defer repo.db.txmu.Unlock()
	return fn(repo)
}
