// Пакет auth выпускает и проверяет токены администратора
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin - единственная значимая роль в системе
const RoleAdmin = "ADMIN"

var (
	// ErrInvalidToken возвращается для подделанного или повреждённого токена
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken возвращается для просроченного токена
	ErrExpiredToken = errors.New("token has expired")
)

// Claims - содержимое токена: роль и имя пользователя
type Claims struct {
	Roles string `json:"roles"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// IsAdmin сообщает, есть ли у владельца токена роль ADMIN
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Roles == RoleAdmin
}

// TokenManager подписывает и проверяет токены HS256
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager создаёт менеджер токенов. ttl <= 0 выпускает бессрочные токены
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, issuer: "coffeemill", now: time.Now}
}

// Issue выпускает токен администратора для пользователя name
func (m *TokenManager) Issue(name string) (string, error) {
	now := m.now()
	claims := Claims{
		Roles: RoleAdmin,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   m.issuer,
			Subject:  name,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify проверяет подпись и срок действия токена и возвращает его содержимое
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
