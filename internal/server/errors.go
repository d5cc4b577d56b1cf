package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	notificationsdomain "github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	ordersapp "github.com/Apurer/go-order-service/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-order-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-order-service/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-order-service/internal/shared/errors"
)

// responder maps domain and application errors to RFC 7807 problems.
var responder = apierrors.NewResponder("",
	mapNotFound,
	mapInvalidInput,
	mapInvalidTransition,
	mapDeliveryFailure,
)

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ordersports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "order"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ordersapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidTransition(err error) (apierrors.ProblemDetail, bool) {
	var transition *ordersdomain.TransitionError
	if errors.As(err, &transition) {
		return apierrors.NewTransitionProblem(string(transition.From), string(transition.To)), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapDeliveryFailure(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, notificationsdomain.ErrEmptyRecipient) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	if errors.Is(err, notificationsdomain.ErrDeliveryFailed) {
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.Error(c, err)
}
