package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core/progress"
)

type progressApi struct {
	svc progress.Service
}

// registerProgressAPI exposes the rollup endpoints. All of them are
// scoped to the calling user; there is no cross-user progress access.
func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc progress.Service) {
	api := progressApi{svc: svc}

	pg := g.Group("/progress/me", jwt)
	pg.GET("", api.overview)
	pg.GET("/by-challenge", api.byChallenge)
	pg.GET("/sections", api.querySectionStats)
	pg.GET("/sections/:id", api.sectionDetail)
	pg.GET("/difficulties", api.queryDifficultyStats)
	pg.GET("/difficulties/:id", api.difficultyDetail)
	pg.GET("/subjects", api.querySubjectStats)
	pg.GET("/subjects/:id", api.subjectDetail)
}

func (api *progressApi) overview(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ov, err := api.svc.Overview(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *progressApi) byChallenge(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	bds, err := api.svc.ByChallenge(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing challenge breakdowns")
	}
	if bds == nil {
		bds = []progress.ChallengeBreakdown{}
	}
	return ctx.JSON(http.StatusOK, bds)
}

func (api *progressApi) querySectionStats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	stats, err := api.svc.AllSectionStats(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing section stats")
	}
	if stats == nil {
		stats = []progress.SectionStats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *progressApi) sectionDetail(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	detail, err := api.svc.SectionDetail(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing section detail")
	}
	detail.Completed = sanitizeChallenges(ctx, detail.Completed)
	detail.Remaining = sanitizeChallenges(ctx, detail.Remaining)
	return ctx.JSON(http.StatusOK, detail)
}

func (api *progressApi) queryDifficultyStats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	stats, err := api.svc.AllDifficultyStats(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing difficulty stats")
	}
	if stats == nil {
		stats = []progress.DifficultyStats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *progressApi) difficultyDetail(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	detail, err := api.svc.DifficultyDetail(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing difficulty detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *progressApi) querySubjectStats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	stats, err := api.svc.AllSubjectStats(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing subject stats")
	}
	if stats == nil {
		stats = []progress.SubjectStats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *progressApi) subjectDetail(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	detail, err := api.svc.SubjectDetail(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing subject detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}
