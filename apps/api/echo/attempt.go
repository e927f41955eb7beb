package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core/progress"
)

type attemptApi struct {
	svc progress.Service
}

func registerAttemptAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc progress.Service) {
	api := attemptApi{svc: svc}

	ag := g.Group("/attempts", jwt)
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
}

func (api *attemptApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data progress.NewAttempt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttempt")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.SubmitAttempt(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "submitting attempt")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *attemptApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var filter progress.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	page, err := api.svc.MyAttempts(ctx.Request().Context(), claims.Subject, filter)
	if err != nil {
		return errors.Wrap(err, "querying attempts")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *attemptApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	att, err := api.svc.GetAttempt(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding attempt by ID")
	}
	return ctx.JSON(http.StatusOK, att)
}
