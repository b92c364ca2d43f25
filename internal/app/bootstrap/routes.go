// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	analyticsfeature "github.com/dalemusser/mealbridge/internal/app/features/analytics"
	authapifeature "github.com/dalemusser/mealbridge/internal/app/features/authapi"
	donationsfeature "github.com/dalemusser/mealbridge/internal/app/features/donations"
	healthfeature "github.com/dalemusser/mealbridge/internal/app/features/health"
	volunteerfeature "github.com/dalemusser/mealbridge/internal/app/features/volunteer"
	assignmentstore "github.com/dalemusser/mealbridge/internal/app/store/assignments"
	donationstore "github.com/dalemusser/mealbridge/internal/app/store/donations"
	sessionstore "github.com/dalemusser/mealbridge/internal/app/store/sessions"
	userstore "github.com/dalemusser/mealbridge/internal/app/store/users"
	"github.com/dalemusser/mealbridge/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. MealBridge applies the session
// middleware globally and mounts the JSON API feature routers under /api,
// plus the health endpoint for load balancers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data is fetched on each request, so role changes and
	// disabled accounts take effect immediately. Bearer tokens resolve
	// through the login sessions collection.
	sessions := sessionstore.New(deps.MongoDatabase)
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))
	sessionMgr.SetTokenResolver(sessions)

	users := userstore.New(deps.MongoDatabase)
	donations := donationstore.New(deps.MongoDatabase)
	assignments := assignmentstore.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// Global auth middleware: loads the user into context when the
	// request carries a session cookie or bearer token.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	authHandler := authapifeature.NewHandler(users, sessions, sessionMgr, logger)
	r.Mount("/api/auth", authapifeature.Routes(authHandler, sessionMgr))

	donationsHandler := donationsfeature.NewHandler(donations, logger)
	r.Mount("/api/donations", donationsfeature.Routes(donationsHandler, sessionMgr))

	volunteerHandler := volunteerfeature.NewHandler(deps.MongoClient, deps.MongoDatabase, donations, assignments, logger)
	r.Mount("/api/volunteer", volunteerfeature.Routes(volunteerHandler, sessionMgr))

	analyticsHandler := analyticsfeature.NewHandler(deps.MongoDatabase,
		int64(appCfg.MealsPerDelivery), int64(appCfg.ImpactPerDonation), logger)
	r.Mount("/api/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

	return r, nil
}
