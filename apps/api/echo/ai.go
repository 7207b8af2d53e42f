package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/ai"
)

type aiApi struct {
	gateway *ai.Gateway
}

func registerAIAPI(g *echo.Group, gateway *ai.Gateway) {
	if gateway == nil {
		return
	}
	api := aiApi{gateway: gateway}

	g.POST("/ai/:kind", api.generate)
}

func (api *aiApi) generate(ctx echo.Context) error {
	kind, err := ai.ParseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	args, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	res, err := api.gateway.Generate(ctx.Request().Context(), kind, args)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
