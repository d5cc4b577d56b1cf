package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns a domain or application error into a problem when it recognises it.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details and owns the error mapping chain of an API.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
	mappers []ErrorMapper
}

// NewResponder builds a responder that consults mappers in order.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{BaseURI: baseURI, mappers: mappers}
}

// DefaultResponder uses relative URIs and has no mappers.
var DefaultResponder = NewResponder("")

// Problem writes p. Instance defaults to the request path.
func (r *Responder) Problem(c *gin.Context, p ProblemDetail) {
	if r.BaseURI != "" && len(p.Type) > 0 && p.Type[0] == '/' {
		p.Type = r.BaseURI + p.Type
	}
	if p.Instance == "" {
		p.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(p.Status, p)
}

// Error resolves err through the mappers, then through any ProblemDetail in its chain.
// Unrecognised errors become a bare 500 and the cause is attached to the gin context.
func (r *Responder) Error(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if p, ok := mapper(err); ok {
			r.Problem(c, p)
			return
		}
	}
	var p ProblemDetail
	if errors.As(err, &p) {
		r.Problem(c, p)
		return
	}
	_ = c.Error(err)
	r.Problem(c, ErrInternal)
}

func (r *Responder) NotFound(c *gin.Context, resourceType string, identifier any) {
	r.Problem(c, NewNotFoundProblem(resourceType, identifier))
}

func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Problem(c, ErrBadRequest.WithDetail(detail))
}

// HTTPStatusFromError extracts the HTTP status carried by err, if any.
func HTTPStatusFromError(err error) int {
	var p ProblemDetail
	if errors.As(err, &p) {
		return p.Status
	}
	return http.StatusInternalServerError
}
