package v1

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/astralshopid/astral-api/internal/api/handler/v1/response"
	"github.com/astralshopid/astral-api/internal/api/middleware"
	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/service"
)

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func getUserFromContext(ctx *gin.Context, svc UserGetter) (domain.User, *response.Err) {
	raw, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized("user is not authenticated")
	}

	userID, ok := raw.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("user is not authenticated")
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized("user no longer exists")
		}

		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}
