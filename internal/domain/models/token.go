package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type CustomClaims struct {
	SRCode string `json:"srcode"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
