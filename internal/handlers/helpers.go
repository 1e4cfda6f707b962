package handlers

import (
	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var errInvalidBody = common.InvalidInput("invalid_body", "request body is not valid JSON")

// actorFrom returns the caller stored by the actor middleware.
func actorFrom(c echo.Context) (*models.Actor, error) {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return nil, common.ErrManagerCodeRequired
	}
	return actor, nil
}

// pathID parses a uuid path parameter, answering with notFound when it is
// not a uuid at all.
func pathID(c echo.Context, name string, notFound *common.Error) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errInvalidBody
	}
	return nil
}
