package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxUsernameLen максимальная длина username в символах
	MaxUsernameLen = 64
	// MaxPasswordBytes предел bcrypt, длиннее пароль не хешируется
	MaxPasswordBytes = 72
)

// NormalizeUsername приводит username к каноничному виду (trim + lowercase)
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail приводит email к каноничному виду (trim + lowercase)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername проверяет username до нормализации.
// Допустим любой непустой после trim username не длиннее MaxUsernameLen.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	return nil
}

// ValidatePassword проверяет, что пароль не пустой и помещается в bcrypt
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	}

	return nil
}
