package main

import (
	"context"
	"fmt"

	"github.com/darasa-lms/darasa/core/course"
)

// seed creates a small demo course the instructor can explore right away:
// two readings followed by a graded quiz.
func (cli *commandLine) seed(instructorID string) error {
	ctx := context.Background()

	crs, err := cli.svc.Create(ctx, instructorID, course.NewCourse{
		Title:       "Go for Backend Engineers",
		Description: "A hands-on introduction to building HTTP services in Go.",
	})
	if err != nil {
		return err
	}

	lectures := []course.NewLecture{
		{Kind: course.KindReading, Title: "Hello, Go", Content: "Install the toolchain and write your first program."},
		{Kind: course.KindReading, Title: "Errors the Go Way", Link: "https://go.dev/blog/error-handling-and-go"},
		{Kind: course.KindQuiz, Title: "Checkpoint: The Basics"},
	}
	var quizLecture course.Lecture
	for _, nl := range lectures {
		lec, err := cli.svc.AddLecture(ctx, instructorID, crs.ID, nl)
		if err != nil {
			return err
		}
		if lec.IsQuiz() {
			quizLecture = lec
		}
	}

	err = cli.svc.UpdateQuiz(ctx, instructorID, crs.ID, quizLecture.ID, course.QuizUpdate{
		PassPct: course.DefaultPassPct,
		Questions: []course.NewQuestion{
			{
				Text:       "Which keyword declares a new variable with inferred type?",
				Options:    []string{"var x int = 1", "x := 1", "let x = 1"},
				CorrectIdx: 1,
			},
			{
				Text:       "What does a function return alongside its result to report failure?",
				Options:    []string{"an exception", "a panic", "an error value"},
				CorrectIdx: 2,
			},
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("seeded course %q (%s)\n", crs.Title, crs.ID)
	return nil
}
