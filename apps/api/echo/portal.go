package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/record"
	"github.com/trezcool/edutrack/core/school"
)

// The student portal is read-only and unauthenticated: students identify
// themselves by class and roll number.
type portalApi struct {
	schoolSvc *school.Service
	recordSvc *record.Service
	validate  *validator.Validate
}

func registerPortalAPI(
	g *echo.Group,
	schoolSvc *school.Service,
	recordSvc *record.Service,
	validate *validator.Validate,
) {
	api := portalApi{
		schoolSvc: schoolSvc,
		recordSvc: recordSvc,
		validate:  validate,
	}

	pg := g.Group("/portal")
	pg.GET("/classes", api.queryClasses)
	pg.POST("/results", api.lookupResults)
}

func (api *portalApi) queryClasses(ctx echo.Context) error {
	classes, err := api.schoolSvc.QueryAllClasses()
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *portalApi) lookupResults(ctx echo.Context) error {
	var data PortalLookupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PortalLookupRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.schoolSvc.GetStudentByRollNumber(data.ClassID, data.RollNumber)
	if err != nil {
		if errors.Cause(err) == school.ErrStudentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "looking up student")
	}

	recs, err := api.recordSvc.StudentRecords(s.ID)
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}
	return ctx.JSON(http.StatusOK, PortalLookupResponse{Student: s, Records: recs})
}

type (
	PortalLookupRequest struct {
		ClassID    int    `json:"class_id" validate:"required,min=1"`
		RollNumber string `json:"roll_number" validate:"required"`
	}

	PortalLookupResponse struct {
		Student school.Student  `json:"student"`
		Records []record.Record `json:"records"`
	}
)

func (pr *PortalLookupRequest) Validate(validate *validator.Validate) error {
	pr.RollNumber = core.CleanString(pr.RollNumber)
	return validate.Struct(pr)
}
