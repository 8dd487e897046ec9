package common

import "errors"

// Общие ошибки для всех репозиториев. Сервисный слой оборачивает их
// в типизированные apperror с человекочитаемым сообщением.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidInput  = errors.New("invalid input")
)
