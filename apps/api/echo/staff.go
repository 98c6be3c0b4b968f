package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/staff"
)

type staffApi struct {
	svc      staff.Service
	validate *validator.Validate
}

func registerStaffAPI(g *echo.Group, svc staff.Service, validate *validator.Validate) {
	api := staffApi{
		svc:      svc,
		validate: validate,
	}

	g.POST("/signup", api.signup)
	g.POST("/login", api.login)
}

// Handlers

func (api *staffApi) signup(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stf, _, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return newServerError("Signup failed", errors.Wrap(err, "signing up"))
	}
	return ctx.JSON(http.StatusOK, SignupResponse{Message: "Signup successful", StaffID: stf.ID})
}

func (api *staffApi) login(ctx echo.Context) error {
	var data staff.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stf, cls, err := api.svc.Login(ctx.Request().Context(), data)
	switch errors.Cause(err) {
	case nil:
	case staff.ErrInvalidCredentials:
		return errInvalidCredentials
	case staff.ErrInvalidClass:
		return errInvalidClass
	default:
		return newServerError("Login failed", errors.Wrap(err, "logging in"))
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Message: "Login successful", Staff: stf, Class: cls})
}
