package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"CoffeeMill/internal/model"
	"CoffeeMill/internal/repository"
)

// ErrBadCredentials возвращается при неверной паре логин/пароль
var ErrBadCredentials = errors.New("incorrect login data")

// ErrEmptyCredentials возвращается при заведении пользователя без логина или пароля
var ErrEmptyCredentials = errors.New("username and password are required")

// UserRepo ищет учётные записи администраторов
type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// PasswordVerifier сверяет пароль с хешем
type PasswordVerifier interface {
	Verify(password, hash string) bool
}

// TokenIssuer выпускает токен администратора
type TokenIssuer interface {
	Issue(name string) (string, error)
}

// AuthService реализует вход администратора
type AuthService struct {
	users     UserRepo
	passwords PasswordVerifier
	tokens    TokenIssuer
}

// NewAuthService создаёт сервис входа
func NewAuthService(u UserRepo, p PasswordVerifier, t TokenIssuer) *AuthService {
	return &AuthService{users: u, passwords: p, tokens: t}
}

// Login проверяет логин и пароль и возвращает токен.
// Неизвестный логин и неверный пароль неразличимы: ErrBadCredentials
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrBadCredentials
	}
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if !s.passwords.Verify(password, u.PasswordHash) {
		return "", ErrBadCredentials
	}
	token, err := s.tokens.Issue(u.Name)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	log.Printf("[auth] %s logged in", u.Name)
	return token, nil
}

// UserStore сохраняет учётные записи администраторов
type UserStore interface {
	SaveUser(ctx context.Context, u model.User) (*model.User, error)
}

// PasswordHasher хеширует пароль для хранения
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SeedAdmin заводит или обновляет администратора с bcrypt-хешем пароля.
// Пустое имя заменяется логином
func SeedAdmin(ctx context.Context, store UserStore, hasher PasswordHasher, name, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	if name == "" {
		name = username
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u, err := store.SaveUser(ctx, model.User{Name: name, Username: username, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	log.Printf("[auth] admin %q saved {id: %d}", u.Username, u.ID)
	return u, nil
}
