package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Envelope единый формат ответа API
type Envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody безопасное для клиента описание ошибки
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON записывает произвольный JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(payload)
}

// RespondSuccess записывает {success: true, data: ...}
func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, Envelope{
		Success: true,
		Data:    data,
	})
}

// RespondSuccessMessage записывает {success: true, message: ..., data: ...}
func RespondSuccessMessage(w http.ResponseWriter, status int, message string, data any) {
	RespondJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError записывает {success: false, error: ...}
func RespondError(w http.ResponseWriter, status int, body ErrorBody) {
	RespondJSON(w, status, Envelope{
		Success: false,
		Error:   &body,
	})
}

// DecodeJSON декодирует тело запроса
// Пустое тело допустимо: все поля тела в API необязательны
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
