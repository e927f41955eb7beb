package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core/curriculum"
)

type curriculumApi struct {
	svc curriculum.Service
}

func registerCurriculumAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc curriculum.Service) {
	api := curriculumApi{svc: svc}
	staff := staffMiddleware()

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.querySubjects)
	sg.POST("", api.createSubject, staff)
	sg.GET("/:id", api.retrieveSubject)
	sg.PUT("/:id", api.updateSubject, staff)
	sg.DELETE("/:id", api.destroySubject, staff)
	sg.GET("/:id/difficulties", api.querySubjectDifficulties)

	dg := g.Group("/difficulties", jwt)
	dg.POST("", api.createDifficulty, staff)
	dg.GET("/:id", api.retrieveDifficulty)
	dg.DELETE("/:id", api.destroyDifficulty, staff)
	dg.GET("/:id/sections", api.queryDifficultySections)

	secg := g.Group("/sections", jwt)
	secg.POST("", api.createSection, staff)
	secg.GET("/:id", api.retrieveSection)
	secg.PUT("/:id", api.updateSection, staff)
	secg.DELETE("/:id", api.destroySection, staff)
	secg.GET("/:id/challenges", api.querySectionChallenges)

	cg := g.Group("/challenges", jwt)
	cg.POST("", api.createChallenge, staff)
	cg.GET("/:id", api.retrieveChallenge)
	cg.PUT("/:id", api.updateChallenge, staff)
	cg.DELETE("/:id", api.destroyChallenge, staff)
}

// sanitizeChallenge blanks out the reference solution for students.
func sanitizeChallenge(ctx echo.Context, ch curriculum.Challenge) curriculum.Challenge {
	if claims, err := getContextClaims(ctx); err == nil {
		if claims.IsTeacher || claims.IsAdmin {
			return ch
		}
	}
	ch.Solution = ""
	return ch
}

func sanitizeChallenges(ctx echo.Context, chs []curriculum.Challenge) []curriculum.Challenge {
	out := make([]curriculum.Challenge, 0, len(chs))
	for _, ch := range chs {
		out = append(out, sanitizeChallenge(ctx, ch))
	}
	return out
}

// Subject handlers

func (api *curriculumApi) createSubject(ctx echo.Context) error {
	var data curriculum.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *curriculumApi) querySubjects(ctx echo.Context) error {
	subs, err := api.svc.QueryAllSubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subs == nil {
		subs = []curriculum.Subject{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *curriculumApi) retrieveSubject(ctx echo.Context) error {
	sub, err := api.svc.GetSubjectByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *curriculumApi) updateSubject(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	orig, err := api.svc.GetSubjectByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}

	var data curriculum.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	sub, err := api.svc.UpdateSubject(rctx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *curriculumApi) destroySubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubjects(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *curriculumApi) querySubjectDifficulties(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	if _, err := api.svc.GetSubjectByID(rctx, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}

	diffs, err := api.svc.QuerySubjectDifficulties(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying difficulties")
	}
	if diffs == nil {
		diffs = []curriculum.Difficulty{}
	}
	return ctx.JSON(http.StatusOK, diffs)
}

// Difficulty handlers

func (api *curriculumApi) createDifficulty(ctx echo.Context) error {
	var data curriculum.NewDifficulty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDifficulty")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	diff, err := api.svc.CreateDifficulty(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating difficulty")
	}
	return ctx.JSON(http.StatusCreated, diff)
}

func (api *curriculumApi) retrieveDifficulty(ctx echo.Context) error {
	diff, err := api.svc.GetDifficultyByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding difficulty by ID")
	}
	return ctx.JSON(http.StatusOK, diff)
}

func (api *curriculumApi) destroyDifficulty(ctx echo.Context) error {
	if err := api.svc.DeleteDifficulties(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting difficulty")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *curriculumApi) queryDifficultySections(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	if _, err := api.svc.GetDifficultyByID(rctx, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding difficulty by ID")
	}

	secs, err := api.svc.QueryDifficultySections(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	if secs == nil {
		secs = []curriculum.Section{}
	}
	return ctx.JSON(http.StatusOK, secs)
}

// Section handlers

func (api *curriculumApi) createSection(ctx echo.Context) error {
	var data curriculum.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sec, err := api.svc.CreateSection(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating section")
	}
	return ctx.JSON(http.StatusCreated, sec)
}

func (api *curriculumApi) retrieveSection(ctx echo.Context) error {
	sec, err := api.svc.GetSectionByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding section by ID")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *curriculumApi) updateSection(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	orig, err := api.svc.GetSectionByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding section by ID")
	}

	var data curriculum.UpdateSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSection")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	sec, err := api.svc.UpdateSection(rctx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating section")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *curriculumApi) destroySection(ctx echo.Context) error {
	if err := api.svc.DeleteSections(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting section")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *curriculumApi) querySectionChallenges(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	if _, err := api.svc.GetSectionByID(rctx, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding section by ID")
	}

	chs, err := api.svc.QuerySectionChallenges(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying challenges")
	}
	return ctx.JSON(http.StatusOK, sanitizeChallenges(ctx, chs))
}

// Challenge handlers

func (api *curriculumApi) createChallenge(ctx echo.Context) error {
	var data curriculum.NewChallenge
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChallenge")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ch, err := api.svc.CreateChallenge(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating challenge")
	}
	return ctx.JSON(http.StatusCreated, ch)
}

func (api *curriculumApi) retrieveChallenge(ctx echo.Context) error {
	ch, err := api.svc.GetChallengeByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding challenge by ID")
	}
	return ctx.JSON(http.StatusOK, sanitizeChallenge(ctx, ch))
}

func (api *curriculumApi) updateChallenge(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	orig, err := api.svc.GetChallengeByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding challenge by ID")
	}

	var data curriculum.UpdateChallenge
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChallenge")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	ch, err := api.svc.UpdateChallenge(rctx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating challenge")
	}
	return ctx.JSON(http.StatusOK, ch)
}

func (api *curriculumApi) destroyChallenge(ctx echo.Context) error {
	if err := api.svc.DeleteChallenges(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting challenge")
	}
	return ctx.NoContent(http.StatusNoContent)
}
