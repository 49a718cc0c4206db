package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token bien formado pero que no pasa la validación.
var ErrInvalidToken = errors.New("jwt: token inválido")

// accessClaims son los claims del token de acceso. El tenant (company_id)
// viaja dentro del token: los casos de uso lo reciben como argumento
// explícito, nunca como estado ambiental.
type accessClaims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // admin | bodeguero | vendedor
	jwt.RegisteredClaims
}

// Generate firma un token HS256 con la identidad, el tenant y el rol del
// usuario, con vigencia de expMinutes.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	now := time.Now()
	claims := accessClaims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, algoritmo y expiración, y devuelve identidad, tenant y
// rol. Cualquier token que no sea HS256 firmado con secret se rechaza.
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	if secret == "" {
		return "", "", "", errors.New("jwt: secret vacío")
	}
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", "", "", err
	}
	if !token.Valid {
		return "", "", "", ErrInvalidToken
	}
	return claims.UserID, claims.CompanyID, claims.Role, nil
}
