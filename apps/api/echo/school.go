package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/record"
	"github.com/trezcool/edutrack/core/school"
	"github.com/trezcool/edutrack/core/teacher"
)

type schoolApi struct {
	auth       *jwtAuth
	teacherSvc *teacher.Service
	svc        *school.Service
	recordSvc  *record.Service
	validate   *validator.Validate
}

func registerSchoolAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	auth *jwtAuth,
	teacherSvc *teacher.Service,
	svc *school.Service,
	recordSvc *record.Service,
	validate *validator.Validate,
) {
	api := schoolApi{
		auth:       auth,
		teacherSvc: teacherSvc,
		svc:        svc,
		recordSvc:  recordSvc,
		validate:   validate,
	}

	cg := g.Group("/classes", jwt)
	cg.POST("", api.createClass)
	cg.GET("", api.queryClasses)

	cd := cg.Group("/:id")
	cd.GET("", api.retrieveClass)
	cd.PUT("", api.renameClass)
	cd.DELETE("", api.destroyClass)
	cd.GET("/subjects", api.queryClassSubjects)
	cd.POST("/subjects", api.addSubject)
	cd.GET("/students", api.queryClassStudents)
	cd.POST("/students", api.enrollStudent)
	cd.GET("/records", api.queryClassRecords)
	cd.GET("/at-risk", api.queryAtRisk)

	sg := g.Group("/subjects/:id", jwt)
	sg.PUT("", api.renameSubject)
	sg.DELETE("", api.destroySubject)

	stg := g.Group("/students/:id", jwt)
	stg.GET("", api.retrieveStudent)
	stg.PUT("", api.updateStudent)
	stg.DELETE("", api.destroyStudent)
}

func (api *schoolApi) ctxTeacher(ctx echo.Context) (teacher.Teacher, error) {
	return api.auth.getContextTeacher(ctx, api.teacherSvc)
}

func (api *schoolApi) ownedClass(ctx echo.Context) (school.Class, error) {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "getting context teacher")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return school.Class{}, errHttpNotFound
	}
	return classOwned(api.svc, t.ID, id)
}

// Classes

func (api *schoolApi) createClass(ctx echo.Context) error {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context teacher")
	}

	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.AddClass(t.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *schoolApi) queryClasses(ctx echo.Context) error {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context teacher")
	}

	classes, err := api.svc.QueryTeacherClasses(t.ID)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) retrieveClass(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *schoolApi) renameClass(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}

	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err = api.svc.RenameClass(c.ID, data)
	if err != nil {
		return errors.Wrap(err, "renaming class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *schoolApi) destroyClass(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteClass(c.ID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Subjects

func (api *schoolApi) addSubject(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}

	var data school.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.AddSubject(c.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding subject")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *schoolApi) queryClassSubjects(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}

	subjects, err := api.svc.QueryClassSubjects(c.ID)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *schoolApi) renameSubject(ctx echo.Context) error {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context teacher")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	s, err := subjectOwned(api.svc, t.ID, id)
	if err != nil {
		return err
	}

	var data school.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.RenameSubject(s.ID, data)
	if err != nil {
		return errors.Wrap(err, "renaming subject")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolApi) destroySubject(ctx echo.Context) error {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context teacher")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	s, err := subjectOwned(api.svc, t.ID, id)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteSubject(s.ID); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api *schoolApi) enrollStudent(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}

	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.svc, c.ID); err != nil {
		return err
	}

	s, err := api.svc.EnrollStudent(c.ID, data)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *schoolApi) queryClassStudents(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}

	students, err := api.svc.QueryClassStudents(c.ID)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *schoolApi) retrieveStudent(ctx echo.Context) error {
	s, err := api.ownedStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolApi) updateStudent(ctx echo.Context) error {
	s, err := api.ownedStudent(ctx)
	if err != nil {
		return err
	}

	var data school.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate, api.svc, s); err != nil {
		return err
	}

	s, err = api.svc.UpdateStudent(s.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolApi) destroyStudent(ctx echo.Context) error {
	s, err := api.ownedStudent(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteStudent(s.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) ownedStudent(ctx echo.Context) (school.Student, error) {
	t, err := api.ctxTeacher(ctx)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "getting context teacher")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return school.Student{}, errHttpNotFound
	}
	return studentOwned(api.svc, t.ID, id)
}

// Records (class scoped)

func (api *schoolApi) queryClassRecords(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}

	recs, err := api.recordSvc.ClassRecords(c.ID)
	if err != nil {
		return errors.Wrap(err, "querying class records")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *schoolApi) queryAtRisk(ctx echo.Context) error {
	c, err := api.ownedClass(ctx)
	if err != nil {
		return err
	}

	recs, err := api.recordSvc.AtRiskRecords(c.ID)
	if err != nil {
		return errors.Wrap(err, "querying at-risk records")
	}
	return ctx.JSON(http.StatusOK, recs)
}
