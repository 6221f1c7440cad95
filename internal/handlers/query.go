package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// intQuery reads an integer query parameter. Missing, malformed, or
// non-positive values fall back to def.
func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
