package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/core/school"
)

type schoolApi struct {
	svc *school.Service
}

func registerSchoolAPI(g *echo.Group, svc *school.Service, authLimiter echo.MiddlewareFunc) {
	api := schoolApi{svc: svc}

	g.GET("/bootstrap", api.bootstrap)
	g.POST("/auth", api.authenticate, authLimiter)

	g.GET("/data/:collection", api.list)
	g.POST("/data/:collection", api.create)
	g.PUT("/data/:collection/:id", api.update)
	g.DELETE("/data/:collection/:id", api.destroy)

	g.Any("/actions/:name", api.action)
}

// Handlers

func (api *schoolApi) bootstrap(ctx echo.Context) error {
	doc, err := api.svc.Bootstrap(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *schoolApi) authenticate(ctx echo.Context) error {
	var creds school.Credentials
	if err := bindBody(ctx, &creds, "Credentials"); err != nil {
		return err
	}
	res, err := api.svc.Authenticate(ctx.Request().Context(), creds)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *schoolApi) list(ctx echo.Context) error {
	c, err := document.ParseCollection(ctx.Param("collection"))
	if err != nil {
		return err
	}
	recs, err := api.svc.List(ctx.Request().Context(), c)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *schoolApi) create(ctx echo.Context) error {
	c, err := document.ParseCollection(ctx.Param("collection"))
	if err != nil {
		return err
	}
	var rec document.Record
	if err = bindBody(ctx, &rec, "Record"); err != nil {
		return err
	}
	if rec == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "body", Error: "a JSON object is required"})
	}
	created, err := api.svc.Create(ctx.Request().Context(), c, rec)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *schoolApi) update(ctx echo.Context) error {
	c, err := document.ParseCollection(ctx.Param("collection"))
	if err != nil {
		return err
	}
	var patch document.Record
	if err = bindBody(ctx, &patch, "Record"); err != nil {
		return err
	}
	updated, err := api.svc.Update(ctx.Request().Context(), c, ctx.Param("id"), patch)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	c, err := document.ParseCollection(ctx.Param("collection"))
	if err != nil {
		return err
	}
	removed, err := api.svc.Delete(ctx.Request().Context(), c, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, removed)
}

func (api *schoolApi) action(ctx echo.Context) error {
	name := ctx.Param("name")
	act, ok := schoolActions[name]
	if !ok {
		return core.NewNotFoundError("action", name)
	}
	if !act.allows(ctx.Request().Method) {
		ctx.Response().Header().Set(echo.HeaderAllow, strings.Join(act.methods, ", "))
		return echo.ErrMethodNotAllowed
	}
	res, err := act.handle(api.svc, ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
