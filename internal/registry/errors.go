package registry

import (
	"errors"
	"fmt"
	"net/http"
)

// Таксономия ошибок реестра.
//
// Каждая операция возвращает ошибку, обернутую вокруг одного из sentinel
// значений ниже, так что вызывающие различают категории через errors.Is,
// а HTTP-слой отображает категорию в статус-код через StatusFor.
var (
	// ErrValidation - некорректный или отсутствующий обязательный ввод.
	ErrValidation = errors.New("validation error")

	// ErrNotFound - бот или листенер не существует.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists - попытка создания с уже занятым идентификатором.
	ErrAlreadyExists = errors.New("already exists")

	// ErrPersistence - сбой чтения/записи/сериализации хранилища.
	ErrPersistence = errors.New("persistence error")

	// ErrTransport - сетевой сбой remote-фасада: отказ соединения,
	// таймаут, некорректный ответ. Direct-фасад такую ошибку не порождает.
	ErrTransport = errors.New("transport error")

	// ErrInternal - нарушение инварианта, которого в корректном коде не бывает.
	ErrInternal = errors.New("internal error")
)

// StatusFor отображает категорию ошибки в HTTP статус-код.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus восстанавливает категорию ошибки из HTTP статус-кода и
// сообщения из envelope. Обратное отображение для remote-фасада:
// direct и remote вызовы должны возвращать одинаковые категории.
func FromStatus(code int, msg string) error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	switch code {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, msg)
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrTransport, msg)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", ErrInternal, code, msg)
	}
}
