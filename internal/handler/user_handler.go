package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// PublicUserResponse - профиль автора без email и служебных полей.
type PublicUserResponse struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		WriteError(w, "Неверный URL", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		WriteError(w, "Пользователь не найден", http.StatusNotFound)
		return
	}

	response := PublicUserResponse{
		UserId: user.UserID,
		Name:   user.Name,
		Avatar: h.UserService.AvatarURL(user),
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	currentUserID, ok := r.Context().Value("userID").(string)
	if !ok || currentUserID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	if userID != currentUserID {
		WriteError(w, "Нет прав для удаления этого пользователя", http.StatusForbidden)
		return
	}

	if err := h.UserService.DeleteAccount(r.Context(), userID); err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, map[string]string{"message": "Пользователь удален"}, http.StatusOK)
}
