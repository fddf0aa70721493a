package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/course"
	"github.com/darasa-lms/darasa/core/progress"
)

type courseApi struct {
	svc      *course.Service
	progSvc  *progress.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := courseApi{
		svc:      deps.CourseSvc,
		progSvc:  deps.ProgressSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, instructorMiddleware())

	// detail endpoints
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/lectures", api.addLecture, instructorMiddleware())

	// quiz authoring endpoints
	qg := dg.Group("/lectures/:lectureId/quiz", instructorMiddleware())
	qg.GET("", api.retrieveQuiz)
	qg.PUT("", api.updateQuiz)
}

type (
	CourseResponse struct {
		course.Course
		Progress *progress.CourseSummary `json:"progress,omitempty"`
	}

	LectureResponse struct {
		course.Lecture
		Progress *progress.Progress `json:"progress,omitempty"`
	}

	CourseDetailResponse struct {
		course.Course
		Lectures []LectureResponse `json:"lectures"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	courses, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	resp := make([]CourseResponse, 0, len(courses))
	for _, crs := range courses {
		cr := CourseResponse{Course: crs}
		if ident.IsStudent() {
			summary, err := api.progSvc.CourseSummary(ctx.Request().Context(), ident.ID, crs.ID)
			if err != nil {
				return errors.Wrap(err, "summarizing course progress")
			}
			cr.Progress = &summary
		}
		resp = append(resp, cr)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	crs, err := api.svc.Create(ctx.Request().Context(), ident.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var byLecture map[string]progress.Progress
	if ident.IsStudent() {
		if byLecture, err = api.progSvc.CourseProgress(ctx.Request().Context(), ident.ID, crs.ID); err != nil {
			return errors.Wrap(err, "querying course progress")
		}
	}

	resp := CourseDetailResponse{Course: crs, Lectures: make([]LectureResponse, 0, len(crs.Lectures))}
	for _, lec := range crs.Lectures {
		lr := LectureResponse{Lecture: lec}
		if rec, ok := byLecture[lec.ID]; ok {
			rec := rec
			lr.Progress = &rec
		}
		resp.Lectures = append(resp.Lectures, lr)
	}
	resp.Course.Lectures = nil
	return ctx.JSON(http.StatusOK, resp)
}

func (api *courseApi) addLecture(ctx echo.Context) error {
	var data course.NewLecture
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLecture")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	lec, err := api.svc.AddLecture(ctx.Request().Context(), ident.ID, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lec)
}

func (api *courseApi) retrieveQuiz(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	quiz, err := api.svc.GetQuiz(ctx.Request().Context(), ident.ID, ctx.Param("id"), ctx.Param("lectureId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quiz)
}

func (api *courseApi) updateQuiz(ctx echo.Context) error {
	var data course.QuizUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	if err := api.svc.UpdateQuiz(ctx.Request().Context(), ident.ID, ctx.Param("id"), ctx.Param("lectureId"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Quiz updated."})
}
