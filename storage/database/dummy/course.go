package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) queryLectures(courseID string, below *int) []course.Lecture {
	lectures := make([]course.Lecture, 0)
	for _, lec := range repo.db.lectures {
		if lec.CourseID != courseID {
			continue
		}
		if below != nil && lec.Order >= *below {
			continue
		}
		lectures = append(lectures, *lec)
	}
	sort.Slice(lectures, func(i, j int) bool { return lectures[i].Order < lectures[j].Order })
	return lectures
}

func (repo *courseRepository) QueryLectures(ctx context.Context, courseID string) ([]course.Lecture, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryLectures(courseID, nil), nil
}

func (repo *courseRepository) QueryPriorLectures(ctx context.Context, courseID string, order int) ([]course.Lecture, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryLectures(courseID, &order), nil
}

func (repo *courseRepository) GetLectureByID(ctx context.Context, id string) (course.Lecture, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lec, ok := repo.db.lectures[id]; ok {
		return *lec, nil
	}
	return course.Lecture{}, course.ErrLectureNotFound
}

func (repo *courseRepository) NextLectureOrder(ctx context.Context, courseID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var max int
	for _, lec := range repo.db.lectures {
		if lec.CourseID == courseID && lec.Order > max {
			max = lec.Order
		}
	}
	return max + 1, nil
}

func (repo *courseRepository) CreateLecture(ctx context.Context, lec course.Lecture, quiz *course.Quiz) (course.Lecture, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lec.ID = uuid.New().String()
	repo.db.lectures[lec.ID] = &lec

	if quiz != nil {
		q := *quiz
		q.ID = uuid.New().String()
		q.LectureID = lec.ID
		repo.db.quizzes[lec.ID] = &q
	}
	return lec, nil
}

func (repo *courseRepository) GetQuizByLectureID(ctx context.Context, lectureID string) (course.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	quiz, ok := repo.db.quizzes[lectureID]
	if !ok {
		return course.Quiz{}, course.ErrQuizNotFound
	}
	out := *quiz
	out.Questions = append([]course.Question(nil), quiz.Questions...)
	return out, nil
}

func (repo *courseRepository) ReplaceQuizQuestions(ctx context.Context, quizID string, passPct int, questions []course.Question) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, quiz := range repo.db.quizzes {
		if quiz.ID != quizID {
			continue
		}
		quiz.PassPct = passPct
		quiz.Questions = make([]course.Question, 0, len(questions))
		for _, q := range questions {
			q.ID = uuid.New().String()
			q.QuizID = quizID
			quiz.Questions = append(quiz.Questions, q)
		}
		return nil
	}
	return course.ErrQuizNotFound
}
