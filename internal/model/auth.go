package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenClaims is the decoded identity carried by a session token.
type TokenClaims struct {
	UserID primitive.ObjectID
	Email  string
	Role   Role
}

// TokenResponse is returned on successful login alongside the cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
