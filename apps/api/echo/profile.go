package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core/user"
)

type profileApi struct {
	svc user.Service
}

func registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service) {
	api := profileApi{svc: svc}

	pg := g.Group("/profiles", jwt)
	pg.POST("", api.create)
	pg.GET("/me", api.mine)
	pg.GET("/:userId", api.retrieve)
	pg.PUT("/:userId", api.update)
}

// create sets up the calling user's profile. One profile per user; a second
// create fails with a 400.
func (api *profileApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data user.NewProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	profile, err := api.svc.CreateProfile(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating profile")
	}
	return ctx.JSON(http.StatusCreated, profile)
}

func (api *profileApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	profile, err := api.svc.GetProfile(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	profile, err := api.svc.GetProfile(ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "finding profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

// update only allows the profile owner or an admin through.
func (api *profileApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	userID := ctx.Param("userId")
	if userID != claims.Subject && !claims.IsAdmin {
		return errHttpForbidden
	}

	orig, err := api.svc.GetProfile(userID)
	if err != nil {
		return errors.Wrap(err, "finding profile")
	}

	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	profile, err := api.svc.UpdateProfile(userID, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}
