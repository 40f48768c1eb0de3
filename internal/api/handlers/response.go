package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	msgInternalError = "Internal server error"
	msgNotFound      = "Not found"
	msgUnauthorized  = "Unauthorized"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
}

// RespondJSON пишет ответ в формате JSON
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку с текстом и необязательным пояснением
func RespondError(w http.ResponseWriter, status int, errText, message string) {
	RespondJSON(w, status, ErrorResponse{Error: errText, Message: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, errText, message string) {
	RespondError(w, http.StatusBadRequest, errText, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, http.StatusUnauthorized, msgUnauthorized, "")
}

// RespondInternalError 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError, "")
}

// DecodeJSON декодирует тело запроса
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// NotFound обработчик неизвестных маршрутов
func NotFound(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: msgNotFound, Path: r.URL.Path})
}
