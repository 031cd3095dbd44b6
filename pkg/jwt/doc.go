// Package jwt provides JSON Web Token utilities for the Attendly API.
//
// Tokens are signed with RS256. The service loads an RSA private key for
// signing and a public key for validation, so validation-only deployments
// never hold signing material.
//
// # Token Generation
//
// Generate tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    Issuer:         "attendly",
//	    ExpirationMins: 15,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: user.ID, Role: "user"})
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Verify(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// # Claims
//
// Beyond the registered claims, tokens carry the user's id, email and role.
// The identity middleware folds the role claim into the request identity; an
// unverifiable token yields the guest identity rather than a transport-level
// rejection.
package jwt
