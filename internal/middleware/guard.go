package middleware

import "strings"

// publicAPIRoutes are the only API routes reachable without a session.
var publicAPIRoutes = map[string]bool{
	"POST /api/v1/auth/register": true,
	"POST /api/v1/auth/login":    true,
}

// CanAccess is the route guard. It decides from method, path and
// authentication state alone whether a request may proceed; every
// /api/ route outside publicAPIRoutes requires a session.
func CanAccess(method, path string, authenticated bool) bool {
	if !strings.HasPrefix(path, "/api/") {
		// Health probes, metrics and the root info endpoint.
		return true
	}

	if authenticated {
		return true
	}

	return publicAPIRoutes[method+" "+path]
}
