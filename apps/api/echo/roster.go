package echoapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/roster"
	sheetsvc "github.com/trezcool/mahudhurio/services/sheets"
)

type rosterApi struct {
	svc    roster.Service
	logger core.Logger
}

func registerRosterAPI(g *echo.Group, svc roster.Service, logger core.Logger) {
	api := rosterApi{
		svc:    svc,
		logger: logger,
	}

	sg := g.Group("/students")
	sg.GET("/:classId", api.list)
	sg.POST("", api.create)
	sg.POST("/bulk", api.createMultiple)
	sg.POST("/import/:classId", api.importSheet)
	sg.DELETE("/:studentId", api.destroy)
}

func paramID(ctx echo.Context, name string) (int, bool) {
	id, err := strconv.Atoi(ctx.Param(name))
	return id, err == nil
}

// Handlers

func (api *rosterApi) list(ctx echo.Context) error {
	classID, ok := paramID(ctx, "classId")
	if !ok {
		return errInvalidClassID
	}

	students, err := api.svc.ListStudents(ctx.Request().Context(), classID)
	if err != nil {
		return newServerError("Failed to fetch students", err)
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *rosterApi) create(ctx echo.Context) error {
	var data roster.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	if _, err := api.svc.AddStudent(ctx.Request().Context(), data); err != nil {
		return newServerError("Failed to add student", errors.Wrap(err, "adding student"))
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student added successfully"})
}

// createMultiple answers in plain text.
func (api *rosterApi) createMultiple(ctx echo.Context) error {
	var data []roster.NewStudent
	if err := json.NewDecoder(ctx.Request().Body).Decode(&data); err != nil || len(data) == 0 {
		return ctx.String(http.StatusBadRequest, "Invalid student data")
	}

	if _, err := api.svc.BulkAddStudents(ctx.Request().Context(), data); err != nil {
		if core.IsValidationError(err) {
			return ctx.String(http.StatusBadRequest, "Invalid student data")
		}
		api.logger.Error("Failed to process students", errors.Wrap(err, ctx.Request().URL.Path))
		return ctx.String(http.StatusInternalServerError, "Failed to process students")
	}
	return ctx.String(http.StatusOK, "Students added successfully")
}

func (api *rosterApi) importSheet(ctx echo.Context) error {
	classID, ok := paramID(ctx, "classId")
	if !ok {
		return errInvalidClassID
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		return errFileRequired
	}
	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = src.Close() }()

	students, err := sheetsvc.ReadRoster(src, classID)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: errors.Cause(err).Error()})
	}

	count, err := api.svc.BulkAddStudents(ctx.Request().Context(), students)
	if err != nil {
		if core.IsValidationError(err) {
			return err
		}
		return newServerError("Failed to process students", err)
	}
	return ctx.JSON(http.StatusOK, ImportResponse{Message: "Students added successfully", Count: count})
}

// destroy answers in plain text.
func (api *rosterApi) destroy(ctx echo.Context) error {
	studentID, ok := paramID(ctx, "studentId")
	if !ok {
		return ctx.String(http.StatusBadRequest, "Failed to delete student")
	}

	if err := api.svc.DeleteStudent(ctx.Request().Context(), studentID); err != nil {
		api.logger.Error("Failed to delete student", errors.Wrap(err, ctx.Request().URL.Path))
		return ctx.String(http.StatusBadRequest, "Failed to delete student")
	}
	return ctx.String(http.StatusOK, "Student deleted successfully")
}
