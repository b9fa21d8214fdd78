package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin role
)

// EndpointSecurityConfig maps "METHOD /route/template" to the level it requires.
// Routes not listed here require SecurityAccess.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /api/health": SecurityPublic,

	"GET /api/rentals":                         SecurityAccess,
	"POST /api/rentals":                        SecurityAccess,
	"GET /api/rentals/{id}":                    SecurityAccess,
	"POST /api/rentals/{id}/close":             SecurityAccess,
	"POST /api/rentals/{id}/generate-contract": SecurityAccess,
	"GET /api/rentals/{id}/download-contract":  SecurityAccess,
	"POST /api/rentals/{id}/send-contract":     SecurityAccess,
	"DELETE /api/rentals/{id}":                 SecurityAdmin,

	"GET /api/customers":         SecurityAccess,
	"POST /api/customers":        SecurityAccess,
	"GET /api/customers/{id}":    SecurityAccess,
	"PUT /api/customers/{id}":    SecurityAccess,
	"DELETE /api/customers/{id}": SecurityAdmin,

	"GET /api/vehicles":                 SecurityAccess,
	"POST /api/vehicles":                SecurityAccess,
	"GET /api/vehicles/categories/list": SecurityAccess,
	"GET /api/vehicles/{id}":            SecurityAccess,
	"PUT /api/vehicles/{id}":            SecurityAccess,

	"GET /api/photos/rental/{rentalId}": SecurityAccess,
	"DELETE /api/photos/{id}":           SecurityAccess,
}

// RequiredSecurity returns the level for a route, defaulting to SecurityAccess.
func RequiredSecurity(method, pathTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+pathTemplate]; ok {
		return level
	}
	return SecurityAccess
}
