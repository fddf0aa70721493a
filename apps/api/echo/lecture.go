package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/progress"
)

type lectureApi struct {
	svc      *progress.Service
	validate *validator.Validate
}

func registerLectureAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := lectureApi{
		svc:      deps.ProgressSvc,
		validate: deps.Validate,
	}

	lg := g.Group("/lectures/:id", jwt)
	lg.GET("", api.retrieve)
	lg.POST("/complete", api.complete, studentMiddleware())
	lg.POST("/quiz/submit", api.submitQuiz, studentMiddleware())
}

type (
	SubmitQuizRequest struct {
		Answers map[string]int `json:"answers" validate:"required"`
	}

	CompleteResponse struct {
		Success  bool              `json:"success"`
		Progress progress.Progress `json:"progress"`
	}
)

func (sqr *SubmitQuizRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(sqr)
}

// Handlers

func (api *lectureApi) retrieve(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	view, err := api.svc.GetLectureView(ctx.Request().Context(), ident, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *lectureApi) complete(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	rec, err := api.svc.CompleteReading(ctx.Request().Context(), ident, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, CompleteResponse{Success: true, Progress: rec})
}

func (api *lectureApi) submitQuiz(ctx echo.Context) error {
	var data SubmitQuizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitQuizRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	res, err := api.svc.SubmitQuiz(ctx.Request().Context(), ident, ctx.Param("id"), data.Answers)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
