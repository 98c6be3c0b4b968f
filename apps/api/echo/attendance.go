package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/roster"
	sheetsvc "github.com/trezcool/mahudhurio/services/sheets"
)

type attendanceApi struct {
	svc roster.Service
}

func registerAttendanceAPI(g *echo.Group, svc roster.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.POST("", api.save)
	ag.GET("/:classId", api.sheet)
	ag.GET("/:classId/export", api.export)
}

// Handlers

func (api *attendanceApi) save(ctx echo.Context) error {
	var data AttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRequest")
	}

	if err := api.svc.SaveAttendance(ctx.Request().Context(), data.Attendance); err != nil {
		if core.IsValidationError(err) {
			return err
		}
		return newServerError("Failed to save attendance", err)
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Attendance saved successfully"})
}

func (api *attendanceApi) getSheet(ctx echo.Context) (roster.Sheet, error) {
	classID, ok := paramID(ctx, "classId")
	if !ok {
		return roster.Sheet{}, errInvalidClassID
	}

	sheet, err := api.svc.AttendanceSheet(ctx.Request().Context(), classID, ctx.QueryParam("date"))
	if err != nil {
		if core.IsValidationError(err) {
			return roster.Sheet{}, err
		}
		return roster.Sheet{}, newServerError("Failed to fetch attendance", err)
	}
	return sheet, nil
}

func (api *attendanceApi) sheet(ctx echo.Context) error {
	sheet, err := api.getSheet(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *attendanceApi) export(ctx echo.Context) error {
	sheet, err := api.getSheet(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = sheetsvc.WriteAttendance(&buf, sheet); err != nil {
		return newServerError("Failed to export attendance", err)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", sheetsvc.ExportFilename(sheet)))
	return ctx.Blob(http.StatusOK, sheetsvc.ContentType, buf.Bytes())
}
