package session

import (
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// TokenExpired inspects the upstream-issued JWT without verifying its
// signature (only the upstream holds the signing key) to decide whether the
// stored credential is still usable. A token we cannot parse, or one without
// an exp claim, is kept and left for the upstream to reject.
func TokenExpired(tokenString string, now time.Time) bool {
    if tokenString == "" {
        return false
    }

    parser := jwt.NewParser()
    claims := jwt.RegisteredClaims{}
    if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
        return false
    }
    if claims.ExpiresAt == nil {
        return false
    }
    return claims.ExpiresAt.Time.Before(now)
}
