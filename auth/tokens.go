package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"github.com/labvotodev-ia/labvoto-back/config"
	"hermannm.dev/wrap"
)

// TokenIssuer creates and verifies the HMAC-signed bearer tokens used by the
// authenticated routes. Tokens carry the user's email as subject and an
// expiry timestamp, nothing else.
type TokenIssuer struct {
	secretKey []byte
	lifetime  time.Duration
}

func NewTokenIssuer(config config.Auth) TokenIssuer {
	return TokenIssuer{
		secretKey: []byte(config.SecretKey),
		lifetime:  time.Duration(config.TokenLifetimeMinutes) * time.Minute,
	}
}

func (issuer TokenIssuer) NewToken(email string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(now.Add(issuer.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(issuer.secretKey)
	if err != nil {
		return "", wrap.Error(err, "failed to sign token")
	}

	return signedToken, nil
}

// VerifyToken checks the token's signature and expiry, and returns the
// subject email it was issued for.
func (issuer TokenIssuer) VerifyToken(tokenString string, now time.Time) (email string, err error) {
	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, wrap.Errorf(
					jwt.ErrTokenSignatureInvalid,
					"unexpected signing method '%v'",
					token.Header["alg"],
				)
			}
			return issuer.secretKey, nil
		},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", apperrors.AuthCause(err, "não foi possível validar as credenciais")
	}

	if !token.Valid || claims.Subject == "" {
		return "", apperrors.Auth("não foi possível validar as credenciais")
	}

	return claims.Subject, nil
}
