package utils

import (
	"errors"
	"time"

	"cargolink/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JWTClaims carries the viewer's capability set so authorization can be
// decided without a user lookup on every request.
type JWTClaims struct {
	UserID       primitive.ObjectID  `json:"user_id"`
	Username     string              `json:"username"`
	Capabilities models.Capabilities `json:"capabilities"`
	IsAdmin      bool                `json:"is_admin"`
	TokenUse     string              `json:"token_use"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func GenerateTokenPair(user *models.User, secretKey string) (*TokenPair, error) {
	accessToken, err := signToken(user, "access", JWTAccessTokenTTL, secretKey)
	if err != nil {
		return nil, err
	}

	refreshToken, err := signToken(user, "refresh", JWTRefreshTokenTTL, secretKey)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(JWTAccessTokenTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func signToken(user *models.User, use string, ttl time.Duration, secretKey string) (string, error) {
	claims := &JWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		Capabilities: user.Capabilities,
		IsAdmin:      user.IsAdmin,
		TokenUse:     use,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    AppName,
			Subject:   user.ID.Hex(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func ValidateToken(tokenString, secretKey string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New(ErrInvalidToken)
}

// RefreshAccessToken validates a refresh token and issues a fresh pair for
// the same identity and capability set.
func RefreshAccessToken(refreshTokenString, secretKey string) (*TokenPair, *JWTClaims, error) {
	claims, err := ValidateToken(refreshTokenString, secretKey)
	if err != nil {
		return nil, nil, err
	}
	if claims.TokenUse != "refresh" {
		return nil, nil, errors.New("not a refresh token")
	}

	user := &models.User{
		ID:           claims.UserID,
		Username:     claims.Username,
		Capabilities: claims.Capabilities,
		IsAdmin:      claims.IsAdmin,
	}

	pair, err := GenerateTokenPair(user, secretKey)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}
