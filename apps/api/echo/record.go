package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/predict"
	"github.com/trezcool/edutrack/core/record"
	"github.com/trezcool/edutrack/core/school"
	"github.com/trezcool/edutrack/core/teacher"
)

type recordApi struct {
	auth       *jwtAuth
	teacherSvc *teacher.Service
	schoolSvc  *school.Service
	svc        *record.Service
	validate   *validator.Validate
}

func registerRecordAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	auth *jwtAuth,
	teacherSvc *teacher.Service,
	schoolSvc *school.Service,
	svc *record.Service,
	validate *validator.Validate,
) {
	api := recordApi{
		auth:       auth,
		teacherSvc: teacherSvc,
		schoolSvc:  schoolSvc,
		svc:        svc,
		validate:   validate,
	}

	rg := g.Group("/records", jwt)
	rg.POST("", api.save)
	rg.POST("/evaluate", api.evaluate)
	rg.GET("/:id", api.retrieve)
	rg.DELETE("/:id", api.destroy)

	sg := g.Group("/students/:id", jwt)
	sg.GET("/records", api.queryStudentRecords)
	sg.GET("/report", api.downloadStudentReport)
}

func (api *recordApi) ctxTeacher(ctx echo.Context) (teacher.Teacher, error) {
	return api.auth.getContextTeacher(ctx, api.teacherSvc)
}

// Handlers

// save evaluates the submitted metrics and upserts the record for the
// (student, subject) pair.
func (api *recordApi) save(ctx echo.Context) error {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context teacher")
	}

	var data record.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := studentOwned(api.schoolSvc, t.ID, data.StudentID)
	if err != nil {
		return err
	}
	subj, err := subjectOwned(api.schoolSvc, t.ID, data.SubjectID)
	if err != nil {
		return err
	}
	if subj.ClassID != s.ClassID {
		return errHttpNotFound
	}

	rec, err := api.svc.Save(data)
	if err != nil {
		return errors.Wrap(err, "saving record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

// evaluate runs the prediction pipeline without persisting anything.
func (api *recordApi) evaluate(ctx echo.Context) error {
	var data EvaluateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EvaluateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	eval, err := api.svc.Evaluate(data.Metrics)
	if err != nil {
		return errors.Wrap(err, "evaluating metrics")
	}
	if len(eval.Tips) > predict.MaxDisplayTips {
		eval.Tips = eval.Tips[:predict.MaxDisplayTips]
	}
	return ctx.JSON(http.StatusOK, eval)
}

func (api *recordApi) retrieve(ctx echo.Context) error {
	rec, err := api.ownedRecord(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *recordApi) destroy(ctx echo.Context) error {
	rec, err := api.ownedRecord(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(rec.ID); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *recordApi) queryStudentRecords(ctx echo.Context) error {
	s, err := api.ownedStudent(ctx)
	if err != nil {
		return err
	}

	recs, err := api.svc.StudentRecords(s.ID)
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}
	return ctx.JSON(http.StatusOK, recs)
}

// downloadStudentReport streams the student's records as a CSV attachment.
func (api *recordApi) downloadStudentReport(ctx echo.Context) error {
	s, err := api.ownedStudent(ctx)
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="report_%s.csv"`, s.RollNumber))
	res.WriteHeader(http.StatusOK)

	return errors.Wrap(api.svc.WriteStudentReportCSV(res, s.ID), "writing student report")
}

func (api *recordApi) ownedStudent(ctx echo.Context) (school.Student, error) {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "getting context teacher")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return school.Student{}, errHttpNotFound
	}
	return studentOwned(api.schoolSvc, t.ID, id)
}

func (api *recordApi) ownedRecord(ctx echo.Context) (record.Record, error) {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return record.Record{}, errors.Wrap(err, "getting context teacher")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return record.Record{}, errHttpNotFound
	}

	rec, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == record.ErrNotFound {
			return record.Record{}, errHttpNotFound
		}
		return record.Record{}, errors.Wrap(err, "getting record")
	}
	if _, err = studentOwned(api.schoolSvc, t.ID, rec.StudentID); err != nil {
		return record.Record{}, err
	}
	return rec, nil
}

// EvaluateRequest carries a metric vector for a dry-run evaluation.
type EvaluateRequest struct {
	predict.Metrics
}

func (er *EvaluateRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(er)
}
