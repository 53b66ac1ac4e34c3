package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainRepo "clinic-booking-core/internal/domain/repository"
	"clinic-booking-core/internal/infrastructure/cache"
	"clinic-booking-core/pkg/jwt"
	"clinic-booking-core/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	PatientIDKey contextKey = "patient_id"
	TokenIDKey   contextKey = "token_id"
)

// AuthMiddleware turns a bearer token into the authenticated patient id.
// Handlers only ever see the resolved id, never the token shape.
type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	patients    domainRepo.PatientDirectory
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, patients domainRepo.PatientDirectory, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		patients:    patients,
		log:         log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, subject, err := m.jwtService.ResolveSubject(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrLegacySubject) {
				response.Unauthorized(w, "Token format is no longer supported, please sign in again")
				return
			}
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		// Check the revocation list
		if jti := claims.JTI(); jti != "" {
			revoked, err := m.redisClient.Exists(r.Context(), cache.RevokedTokenKeyPrefix+jti).Result()
			if err != nil {
				m.log.Warnf("Failed to check token revocation: %+v", err)
				response.InternalServerError(w, "Failed to validate token")
				return
			}
			if revoked > 0 {
				response.Unauthorized(w, "Token has been revoked")
				return
			}
		}

		patientID, err := m.resolvePatient(r.Context(), subject)
		if err != nil {
			m.log.Warnf("Failed to resolve token subject: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if patientID == 0 {
			response.Unauthorized(w, "Unknown patient")
			return
		}

		ctx := context.WithValue(r.Context(), PatientIDKey, patientID)
		ctx = context.WithValue(ctx, TokenIDKey, claims.JTI())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolvePatient returns 0 when a legacy e-mail matches no patient
func (m *AuthMiddleware) resolvePatient(ctx context.Context, subject jwt.Subject) (int64, error) {
	switch s := subject.(type) {
	case jwt.CurrentSubject:
		return s.PatientID, nil
	case jwt.LegacySubject:
		id, found, err := m.patients.FindIDByEmail(ctx, s.Email)
		if err != nil || !found {
			return 0, err
		}
		return id, nil
	}
	return 0, nil
}

// GetPatientIDFromContext extracts the authenticated patient id from context
func GetPatientIDFromContext(ctx context.Context) (int64, bool) {
	patientID, ok := ctx.Value(PatientIDKey).(int64)
	return patientID, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
