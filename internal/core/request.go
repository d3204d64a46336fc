// AngelaMos | 2026
// request.go

package core

import (
	"net/http"
	"strconv"
)

// QueryInt reads an integer query parameter, returning defaultVal when it is
// absent or malformed.
func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
