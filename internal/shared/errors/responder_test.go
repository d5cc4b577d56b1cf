package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOutOfStock = errors.New("out of stock")

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/orders/7", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/7", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestWithExtension_LeavesTemplateUntouched(t *testing.T) {
	problem := ErrConflict.WithExtension("from", "paid")
	require.Equal(t, "paid", problem.Extensions["from"])
	require.Nil(t, ErrConflict.Extensions)
}

func TestResponder_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewResponder("",
		func(err error) (ProblemDetail, bool) {
			if errors.Is(err, errOutOfStock) {
				return NewTransitionProblem("pending", "fulfilled"), true
			}
			return ProblemDetail{}, false
		},
	)

	rec, problem := serve(t, func(c *gin.Context) { responder.Error(c, errOutOfStock) })
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, TypeInvalidTransition, problem.Type)
	assert.Equal(t, "/v1/orders/7", problem.Instance)
	assert.Equal(t, "pending", problem.Extensions["from"])
	assert.Equal(t, "fulfilled", problem.Extensions["to"])
}

func TestResponder_UnmappedErrorHidesCause(t *testing.T) {
	responder := NewResponder("https://errors.example.com")

	rec, problem := serve(t, func(c *gin.Context) {
		responder.Error(c, errors.New("pq: connection refused"))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "https://errors.example.com"+TypeInternal, problem.Type)
	assert.Empty(t, problem.Detail)
}

func TestHTTPStatusFromError(t *testing.T) {
	wrapped := errors.Join(errOutOfStock, NewNotFoundProblem("order", 7))
	require.Equal(t, http.StatusNotFound, HTTPStatusFromError(wrapped))
	require.Equal(t, http.StatusInternalServerError, HTTPStatusFromError(errOutOfStock))
}
