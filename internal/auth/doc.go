// Package auth provides authentication, authorization and upload rate limiting.
//
// It supports two authentication modes:
//   - "none": No authentication required (default), every request acts as the local admin
//   - "jwt": Bearer tokens issued by POST /api/auth/login for accounts stored in the database
//
// # Configuration
//
//	AUTH_MODE=none    # Default, no auth required
//	AUTH_MODE=jwt     # Requires accounts created with `hanzi create-user`
//
// For jwt mode, additional configuration:
//
//	AUTH_JWT_SECRET=<at least 32 characters>
//	AUTH_JWT_ISSUER=hanzi
//	AUTH_TOKEN_EXPIRY=24h
//	AUTH_BCRYPT_COST=12
//
// # Usage
//
//	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenExpiry)
//	authMiddleware := auth.NewMiddleware(tokens, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//	admin := router.Group("/api", authMiddleware.RequireRole(entities.UserRoleAdmin))
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c)  // Returns DefaultUserID in "none" mode
//
// # Upload limiting
//
// UploadLimiter counts uploads per client IP in a fixed window. Its Middleware
// guards the import routes; the single-file import handler calls Reset for the
// caller when it starts processing, the multi-file handler never does.
package auth
