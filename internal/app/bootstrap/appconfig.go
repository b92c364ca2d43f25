// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (HTTP ports, TLS,
// logging, CORS). AppConfig is everything specific to MealBridge:
// database connection details, session cookies, and the donation impact
// multipliers shown on dashboards.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Impact estimation multipliers
	MealsPerDelivery  int // Estimated meals per delivered donation
	ImpactPerDonation int // Impact score points per donation listed

	// Admin bootstrap
	AdminEmail    string // Email of the admin account ensured at startup (blank disables)
	AdminPassword string // Initial password when the admin account is created

	// Base URL of the deployment, used in logs and health reporting
	BaseURL string
}
