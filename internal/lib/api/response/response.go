package response

import (
	"encoding/json"
	"net/http"
)

// Message - тело ответа с ошибкой или подтверждением
type Message struct {
	Message string `json:"message"`
}

// JSON пишет тело в формате JSON с указанным статусом
func JSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Error пишет {"message": ...}; ошибки клиента и сервера имеют одну форму
func Error(w http.ResponseWriter, status int, message string) {
	_ = JSON(w, status, Message{Message: message})
}
