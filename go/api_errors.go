package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	menuapp "github.com/Apurer/go-gin-storefront/internal/domains/menu/application"
	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	menuports "github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// problems maps every domain error the handlers can see onto RFC 7807
// responses. Anything unmapped becomes a detail-free 500.
var problems = apierrors.NewChainedResponder("", identityErrors, menuErrors, orderErrors)

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	problems.BadRequest(c, err.Error())
}

func identityErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, identity.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func menuErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, menuports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("menu item not found"), true
	case errors.Is(err, menudomain.ErrDuplicateReview):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, menuapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func orderErrors(err error) (apierrors.ProblemDetail, bool) {
	var stockErr *orderapp.InsufficientStockError
	var missingErr *orderapp.ItemNotFoundError
	switch {
	case errors.As(err, &stockErr):
		return apierrors.ErrOutOfStock.
			WithDetail(stockErr.Error()).
			WithExtension("itemId", stockErr.ItemID.String()).
			WithExtension("itemName", stockErr.ItemName).
			WithExtension("requested", stockErr.Requested).
			WithExtension("available", stockErr.Available), true
	case errors.Is(err, orderapp.ErrInsufficientStock):
		return apierrors.ErrOutOfStock.WithDetail(err.Error()), true
	case errors.As(err, &missingErr):
		return apierrors.NewNotFoundProblem("menu item", missingErr.ItemID.String()), true
	case errors.Is(err, orderapp.ErrItemNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, orderports.ErrStatusConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("idempotency key was already used for a different order"), true
	case errors.Is(err, orderapp.ErrPaymentFailed):
		return apierrors.ErrPaymentFailed.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// bindUUIDParam binds a simple-style path parameter into a UUID, answering
// 400 when it is malformed.
func bindUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondBadRequest(c, err)
		return uuid.Nil, false
	}
	return id, true
}

func callerFrom(c *gin.Context) *identity.Identity {
	caller, _ := identity.FromContext(c.Request.Context())
	return caller
}
