package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyhub/internal/auth"
	"storyhub/internal/newsletter"
	"storyhub/internal/reading"
	"storyhub/internal/state"
	"storyhub/internal/upload"
)

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, state.ErrLoginRequired),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, state.ErrStoryNotFound),
		errors.Is(err, state.ErrChapterNotFound),
		errors.Is(err, reading.ErrNotReading),
		errors.Is(err, reading.ErrNoStories):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, newsletter.ErrAlreadySubscribed):
		return http.StatusConflict
	case errors.Is(err, upload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// fail writes err as {"error": msg}. Anything not matched above is a
// validation failure and maps to 400.
func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	s.log.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	c.JSON(code, gin.H{"error": err.Error()})
}

func (s *Server) internal(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid story id", errBadRequest)
	}
	return id, nil
}

func indexParam(c *gin.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: invalid chapter index", errBadRequest)
	}
	return i, nil
}

func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
