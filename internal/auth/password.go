package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost - стоимость bcrypt для новых хешей
const DefaultBcryptCost = 12

// PasswordHasher хеширует и сверяет пароли администраторов
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создаёт PasswordHasher со стоимостью по умолчанию
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: DefaultBcryptCost}
}

// Hash возвращает bcrypt-хеш пароля (используется для заведения пользователей)
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify сообщает, соответствует ли пароль хешу
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
