// Package handler provides the HTTP API for FAZAN.CLOUD.
//
// Errors cross the service boundary as English sentinels and are
// translated here into the Russian texts the storefront shows.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/narama3535-tech/fazancloud/internal/ai"
	"github.com/narama3535-tech/fazancloud/internal/scrape"
	"github.com/narama3535-tech/fazancloud/internal/service"
	"github.com/narama3535-tech/fazancloud/internal/session"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto an HTTP status and the Russian
// user-facing message.
func writeError(w http.ResponseWriter, err error) {
	status, message := mapError(err)
	writeJSON(w, status, errorResponse{Error: message})
}

// writeMessage writes a bare error message with the given status.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// mapError translates known sentinels; anything unknown is an internal
// error and the generic text.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "Пользователь не найден"
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict, "Это имя пользователя уже занято"
	case errors.Is(err, service.ErrUserBanned):
		return http.StatusForbidden, "Ваш аккаунт заблокирован. Обратитесь в оффлайн магазин."
	case errors.Is(err, service.ErrDeviceBanned):
		return http.StatusForbidden, "Ваше устройство заблокировано в системе."
	case errors.Is(err, service.ErrInvalidPassword):
		return http.StatusUnauthorized, "Неверный пароль"
	case errors.Is(err, service.ErrPrivilegedMismatch):
		return http.StatusUnauthorized, "Неверный пароль администратора или владельца."
	case errors.Is(err, service.ErrPrivilegedNameNeeded):
		return http.StatusUnauthorized, "Неверное имя пользователя для администратора"
	case errors.Is(err, service.ErrInvalidUsername):
		return http.StatusBadRequest, "Недопустимое имя пользователя"
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, "Товар не найден"
	case errors.Is(err, service.ErrInvalidProduct):
		return http.StatusBadRequest, "Некорректные данные товара"
	case errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound, "Комментарий не найден"
	case errors.Is(err, service.ErrEmptyComment):
		return http.StatusBadRequest, "Комментарий не может быть пустым"
	case errors.Is(err, service.ErrLockdownActive):
		return http.StatusServiceUnavailable, "Магазин временно закрыт администратором по соображениям безопасности или техническим причинам."
	case errors.Is(err, session.ErrNotFound):
		return http.StatusUnauthorized, "Требуется авторизация"
	case errors.Is(err, ai.ErrJobNotFound):
		return http.StatusNotFound, "Поиск по фото не найден или устарел"
	case errors.Is(err, scrape.ErrInvalidURL):
		return http.StatusBadRequest, "Некорректная ссылка на пост Telegram"
	case errors.Is(err, scrape.ErrNoImage):
		return http.StatusNotFound, "В посте Telegram не найдено изображение"
	default:
		return http.StatusInternalServerError, "Ошибка сервера. Попробуйте позже."
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
