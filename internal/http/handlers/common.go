package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body", nil)
		return false
	}
	return true
}

// pathID parses the :id segment; non-numeric ids are rejected with 400.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id: "+c.Param("id"), nil)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter, recording a violation on bad input.
func queryInt(c *gin.Context, key string, def int, errs map[string]string) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[key] = key + " must be an integer"
		return def
	}
	return n
}
