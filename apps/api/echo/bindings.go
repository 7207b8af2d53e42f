package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var bodyBinder = new(echo.DefaultBinder)

// bindBody decodes the request body only. Records are free-form maps and must not pick up path params.
func bindBody(ctx echo.Context, i interface{}, what string) error {
	if err := bodyBinder.BindBody(ctx, i); err != nil {
		return errors.Wrapf(err, "binding to %s", what)
	}
	return nil
}
