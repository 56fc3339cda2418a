package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responder sends error envelopes.
type Responder struct {
	logger *slog.Logger
}

// NewResponder creates a responder. Unmapped errors are logged with logger.
func NewResponder(logger *slog.Logger) *Responder {
	return &Responder{logger: logger}
}

// Respond aborts the request with the problem envelope.
func (r *Responder) Respond(c *gin.Context, problem Problem) {
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError converts a standard error to a Problem and responds.
// Errors that are not already a Problem become an opaque 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem Problem
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.log().ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("path", c.FullPath()),
		slog.String("method", c.Request.Method),
		slog.String("error", err.Error()),
	)
	r.Respond(c, ErrInternal)
}

func (r *Responder) log() *slog.Logger {
	if r == nil || r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// ErrorMapper maps domain/application errors to a Problem.
type ErrorMapper func(err error) (Problem, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(logger *slog.Logger, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(logger),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}

// MapSentinel returns a mapper answering with problem whenever errors.Is(err, target).
func MapSentinel(target error, problem Problem) ErrorMapper {
	return func(err error) (Problem, bool) {
		if errors.Is(err, target) {
			return problem, true
		}
		return Problem{}, false
	}
}
