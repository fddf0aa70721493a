package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/darasa-lms/darasa/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type (
	courseRow struct {
		ID           string    `db:"id"`
		Title        string    `db:"title"`
		Description  string    `db:"description"`
		InstructorID string    `db:"instructor_id"`
		CreatedAt    time.Time `db:"created_at"`
	}

	lectureRow struct {
		ID        string         `db:"id"`
		CourseID  string         `db:"course_id"`
		Kind      string         `db:"kind"`
		Title     string         `db:"title"`
		Content   sql.NullString `db:"content"`
		Link      sql.NullString `db:"link"`
		Order     int            `db:"order"`
		CreatedAt time.Time      `db:"created_at"`
	}

	quizRow struct {
		ID        string `db:"id"`
		LectureID string `db:"lecture_id"`
		PassPct   int    `db:"pass_pct"`
	}

	questionRow struct {
		ID         string         `db:"id"`
		QuizID     string         `db:"quiz_id"`
		Text       string         `db:"text"`
		Options    pq.StringArray `db:"options"`
		CorrectIdx int            `db:"correct_idx"`
	}
)

func (r courseRow) toCourse() course.Course {
	return course.Course{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		InstructorID: r.InstructorID,
		CreatedAt:    r.CreatedAt,
	}
}

func (r lectureRow) toLecture() course.Lecture {
	return course.Lecture{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Kind:      r.Kind,
		Title:     r.Title,
		Content:   r.Content.String,
		Link:      r.Link.String,
		Order:     r.Order,
		CreatedAt: r.CreatedAt,
	}
}

func toLectures(rows []lectureRow) []course.Lecture {
	lectures := make([]course.Lecture, 0, len(rows))
	for _, row := range rows {
		lectures = append(lectures, row.toLecture())
	}
	return lectures
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO course (id, title, description, instructor_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		crs.ID, crs.Title, crs.Description, crs.InstructorID, crs.CreatedAt.UTC(),
	)
	if err != nil {
		return course.Course{}, trapStoreErr(err, "inserting course")
	}
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM course ORDER BY created_at DESC`)
	if err != nil {
		return nil, trapStoreErr(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	var row courseRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id)
	if err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "finding course by ID")
	}
	return row.toCourse(), nil
}

func (repo *courseRepository) QueryLectures(ctx context.Context, courseID string) ([]course.Lecture, error) {
	var rows []lectureRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM lecture WHERE course_id = $1 ORDER BY "order"`, courseID)
	if err != nil {
		return nil, trapStoreErr(err, "querying lectures")
	}
	return toLectures(rows), nil
}

func (repo *courseRepository) QueryPriorLectures(ctx context.Context, courseID string, order int) ([]course.Lecture, error) {
	var rows []lectureRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM lecture WHERE course_id = $1 AND "order" < $2 ORDER BY "order"`, courseID, order)
	if err != nil {
		return nil, trapStoreErr(err, "querying prior lectures")
	}
	return toLectures(rows), nil
}

func (repo *courseRepository) GetLectureByID(ctx context.Context, id string) (course.Lecture, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Lecture{}, course.ErrLectureNotFound
	}
	var row lectureRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM lecture WHERE id = $1`, id)
	if err != nil {
		return course.Lecture{}, trapNoRowsErr(err, course.ErrLectureNotFound, "finding lecture by ID")
	}
	return row.toLecture(), nil
}

func (repo *courseRepository) NextLectureOrder(ctx context.Context, courseID string) (int, error) {
	var next int
	err := repo.db.GetContext(ctx, &next,
		`SELECT COALESCE(MAX("order"), 0) + 1 FROM lecture WHERE course_id = $1`, courseID)
	if err != nil {
		return 0, trapStoreErr(err, "querying next lecture order")
	}
	return next, nil
}

func (repo *courseRepository) CreateLecture(ctx context.Context, lec course.Lecture, quiz *course.Quiz) (course.Lecture, error) {
	lec.ID = uuid.New().String()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return course.Lecture{}, trapStoreErr(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lecture (id, course_id, kind, title, content, link, "order", created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
		lec.ID, lec.CourseID, lec.Kind, lec.Title, lec.Content, lec.Link, lec.Order, lec.CreatedAt.UTC(),
	)
	if err != nil {
		return course.Lecture{}, trapStoreErr(err, "inserting lecture")
	}

	if quiz != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO quiz (id, lecture_id, pass_pct) VALUES ($1, $2, $3)`,
			uuid.New().String(), lec.ID, quiz.PassPct,
		)
		if err != nil {
			return course.Lecture{}, trapStoreErr(err, "inserting quiz")
		}
	}

	if err = tx.Commit(); err != nil {
		return course.Lecture{}, trapStoreErr(err, "committing transaction")
	}
	return lec, nil
}

func (repo *courseRepository) GetQuizByLectureID(ctx context.Context, lectureID string) (course.Quiz, error) {
	var row quizRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM quiz WHERE lecture_id = $1`, lectureID)
	if err != nil {
		return course.Quiz{}, trapNoRowsErr(err, course.ErrQuizNotFound, "finding quiz by lecture ID")
	}

	var qRows []questionRow
	err = repo.db.SelectContext(ctx, &qRows, `SELECT * FROM question WHERE quiz_id = $1`, row.ID)
	if err != nil {
		return course.Quiz{}, trapStoreErr(err, "querying quiz questions")
	}

	quiz := course.Quiz{
		ID:        row.ID,
		LectureID: row.LectureID,
		PassPct:   row.PassPct,
		Questions: make([]course.Question, 0, len(qRows)),
	}
	for _, q := range qRows {
		quiz.Questions = append(quiz.Questions, course.Question{
			ID:         q.ID,
			QuizID:     q.QuizID,
			Text:       q.Text,
			Options:    q.Options,
			CorrectIdx: q.CorrectIdx,
		})
	}
	return quiz, nil
}

func (repo *courseRepository) ReplaceQuizQuestions(ctx context.Context, quizID string, passPct int, questions []course.Question) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return trapStoreErr(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `UPDATE quiz SET pass_pct = $1 WHERE id = $2`, passPct, quizID); err != nil {
		return trapStoreErr(err, "updating quiz")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM question WHERE quiz_id = $1`, quizID); err != nil {
		return trapStoreErr(err, "deleting quiz questions")
	}
	for _, q := range questions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO question (id, quiz_id, text, options, correct_idx) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), quizID, q.Text, pq.StringArray(q.Options), q.CorrectIdx,
		)
		if err != nil {
			return trapStoreErr(err, "inserting quiz question")
		}
	}

	return trapStoreErr(tx.Commit(), "committing transaction")
}
