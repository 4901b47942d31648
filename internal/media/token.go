// Package media signs room access tokens for the real-time media service and
// authenticates its webhook callbacks.
package media

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VideoGrant scopes a room token to a single room and capability set.
// Capabilities use pointers so "absent" and "false" serialize distinctly,
// matching the media vendor's claim format.
type VideoGrant struct {
	Room         string `json:"room,omitempty"`
	RoomJoin     bool   `json:"roomJoin,omitempty"`
	CanPublish   *bool  `json:"canPublish,omitempty"`
	CanSubscribe *bool  `json:"canSubscribe,omitempty"`
}

type roomTokenClaims struct {
	Video VideoGrant `json:"video"`
	Name  string     `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenSigner mints room access tokens under the media service API key pair.
type TokenSigner struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewTokenSigner(apiKey, apiSecret string, ttl time.Duration) (*TokenSigner, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("media api key and secret required")
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &TokenSigner{apiKey: apiKey, apiSecret: apiSecret, ttl: ttl}, nil
}

// RoomToken mints a token that lets identity join room with the given
// capabilities. Expiry is bound by the signature; the token grants nothing
// outside the named room.
func (s *TokenSigner) RoomToken(identity, displayName, room string, canPublish, canSubscribe bool) (string, error) {
	if identity == "" || room == "" {
		return "", errors.New("identity and room required")
	}
	now := time.Now().UTC()
	claims := roomTokenClaims{
		Video: VideoGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   &canPublish,
			CanSubscribe: &canSubscribe,
		},
		Name: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.apiSecret))
}

// parseRoomToken is test support: decode and validate a token minted by
// RoomToken under the same secret.
func parseRoomToken(apiSecret, tokenString string) (*roomTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &roomTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(apiSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*roomTokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
