package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinPartyNameLength          = 2
	MaxPartyNameLength          = 200
	MinSubjectDescriptionLength = 3
	MaxSubjectDescriptionLength = 2000
	MaxConditionNameLength      = 200
	MaxConditionsPerAccount     = 50
	MinReasonLength             = 3
	MaxReasonLength             = 500
	MaxNotesLength              = 2000
	MinAmount                   = 0.01
	MaxAmount                   = 1000000000.0 // 1 миллиард
	MinExpirationDays           = 1
	MaxExpirationDays           = 365
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(strings.ToLower(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("некорректный формат email")
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("некорректный домен email")
	}
	return nil
}

// ValidateAmount проверяет денежную сумму.
func ValidateAmount(fieldName string, amount float64) error {
	if amount < MinAmount {
		return fmt.Errorf("%s должна быть положительной", fieldName)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s превышает допустимый максимум", fieldName)
	}
	return nil
}

// ValidateCurrency проверяет код валюты (ISO 4217, три заглавные буквы).
func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return fmt.Errorf("код валюты должен состоять из трёх букв")
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("код валюты должен состоять из заглавных латинских букв")
		}
	}
	return nil
}

// ValidateTransactionType проверяет тип сделки.
func ValidateTransactionType(transactionType string) error {
	if strings.TrimSpace(transactionType) == "" {
		return fmt.Errorf("тип сделки обязателен")
	}
	return ValidateLength("тип сделки", transactionType, 2, 50)
}
