package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/analytics"
	"github.com/trezcool/academia/core/school"
)

type analyticsApi struct {
	svc *school.Service
}

func registerAnalyticsAPI(g *echo.Group, svc *school.Service) {
	api := analyticsApi{svc: svc}

	ag := g.Group("/analytics")
	ag.GET("/overview", api.overview)
	ag.GET("/students/:id", api.student)
}

func (api *analyticsApi) overview(ctx echo.Context) error {
	doc, err := api.svc.Bootstrap(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, analytics.Compute(doc))
}

func (api *analyticsApi) student(ctx echo.Context) error {
	doc, err := api.svc.Bootstrap(ctx.Request().Context())
	if err != nil {
		return err
	}
	report, err := analytics.ForStudent(doc, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}
