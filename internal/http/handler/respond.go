package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamhub.app/server/common/id"
	"teamhub.app/server/internal/apperr"
	"teamhub.app/server/internal/http/dto"
	"teamhub.app/server/internal/http/middleware"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
)

// respondError writes err as {"error": message} with the status of its kind.
// Untagged errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed unexpectedly",
			"error", err,
			"route", c.FullPath(),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.MessageOf(err)})
}

// bindJSON decodes the body into dst. It writes the response and reports
// false on failure: 422 with field issues, 400 otherwise.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	if issues, ok := dto.Issues(err); ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": issues})
		return false
	}
	if errors.Is(err, io.EOF) {
		respondError(c, service.ErrMissingBody)
		return false
	}

	slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
	respondError(c, apperr.Wrap(apperr.MissingBody, "Invalid request body", err))
	return false
}

// actor returns the authenticated user. Routes using it sit behind RequireAuth.
func actor(c *gin.Context) *model.User {
	return middleware.GetUser(c.Request.Context())
}

func actorID(c *gin.Context) int64 {
	if u := actor(c); u != nil {
		return u.ID
	}
	return 0
}

// idParam parses a path id; a malformed id reads as missing.
func idParam(c *gin.Context, name string) (int64, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		respondError(c, service.ErrMissingParameter)
		return 0, false
	}
	return v, true
}

// pageOptions reads page and limit leniently; anything unparsable falls back
// to the service defaults.
func pageOptions(c *gin.Context) model.PageOptions {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return model.PageOptions{Page: page, Limit: limit}
}
