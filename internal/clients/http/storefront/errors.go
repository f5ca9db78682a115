package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

var (
	// ErrNotFound is matched by 404 responses.
	ErrNotFound = errors.New("storefront resource not found")
	// ErrConflict is matched by 409 responses other than stock shortages.
	ErrConflict = errors.New("storefront conflict")
	// ErrInvalidRequest is matched by 400 responses.
	ErrInvalidRequest = errors.New("storefront rejected the request")
)

// APIError is a problem response returned by the storefront API. It unwraps
// to the matching domain error so callers can use errors.Is and errors.As the
// same way they would against the in-process services.
type APIError struct {
	Problem apierrors.ProblemDetail
	cause   error
}

func (e *APIError) Error() string {
	msg := e.Problem.Title
	if msg == "" {
		msg = "storefront API error"
	}
	if e.Problem.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Problem.Detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Problem.Status)
}

// StatusCode returns the HTTP status of the response.
func (e *APIError) StatusCode() int {
	return e.Problem.Status
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func decodeAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	var problem apierrors.ProblemDetail
	if len(raw) == 0 || json.Unmarshal(raw, &problem) != nil {
		problem = apierrors.ProblemDetail{Title: http.StatusText(res.StatusCode)}
	}
	if problem.Status == 0 {
		problem.Status = res.StatusCode
	}
	return &APIError{Problem: problem, cause: causeOf(problem)}
}

func causeOf(problem apierrors.ProblemDetail) error {
	switch problem.Type {
	case apierrors.TypeOutOfStock:
		if stockErr := stockErrorFrom(problem.Extensions); stockErr != nil {
			return stockErr
		}
		return orderapp.ErrInsufficientStock
	case apierrors.TypePayment:
		return orderapp.ErrPaymentFailed
	case apierrors.TypeUnauthorized:
		return identity.ErrUnauthenticated
	case apierrors.TypeForbidden:
		return identity.ErrForbidden
	}
	switch problem.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalidRequest
	}
	return nil
}

func stockErrorFrom(ext map[string]any) *orderapp.InsufficientStockError {
	rawID, _ := ext["itemId"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}
	name, _ := ext["itemName"].(string)
	requested, _ := ext["requested"].(float64)
	available, _ := ext["available"].(float64)
	return &orderapp.InsufficientStockError{
		ItemID:    id,
		ItemName:  name,
		Requested: int(requested),
		Available: int(available),
	}
}
