package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
)

type JWTService interface {
	GenerateAccessToken(user *model.User) (string, error)
	ValidateToken(token string) (*model.TokenClaims, error)
	RevokeToken(token string) error
	Expiry() time.Duration
}

type jwtService struct {
	secret   []byte
	expiry   time.Duration
	denylist *cache.Cache
}

// NewJWTService creates an HS256 token service. Revoked tokens are held in
// an in-memory denylist until their natural expiry.
func NewJWTService(secret string, expiry time.Duration) JWTService {
	return &jwtService{
		secret:   []byte(secret),
		expiry:   expiry,
		denylist: cache.New(expiry, 10*time.Minute),
	}
}

func (s *jwtService) GenerateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) ValidateToken(tokenStr string) (*model.TokenClaims, error) {
	if _, revoked := s.denylist.Get(tokenStr); revoked {
		return nil, fmt.Errorf("token revoked")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	parsedUserID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	return &model.TokenClaims{
		UserID: parsedUserID,
		Email:  email,
		Role:   model.Role(role),
	}, nil
}

func (s *jwtService) RevokeToken(token string) error {
	s.denylist.Set(token, struct{}{}, s.expiry)
	return nil
}

func (s *jwtService) Expiry() time.Duration {
	return s.expiry
}
