package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены (комната, вопрос, участник).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, действие не хоста).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidState используется, когда операция не разрешена в текущей фазе комнаты
	// (например, submit_answer до старта игры или start_game в уже запущенной комнате).
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrDuplicateAnswer используется при повторном ответе на тот же вопрос.
	ErrDuplicateAnswer = errors.New("answer already submitted")

	// ErrInvalidRequest используется для ошибок валидации входных данных
	// (неизвестный тип события, отсутствующие поля, неверный payload).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrValidation используется для ошибок валидации DTO на HTTP-слое.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда токен (access или WS-тикет) истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния хранилища
	// (например, коллизия кода комнаты при генерации).
	ErrConflict = errors.New("resource state conflict")
)
