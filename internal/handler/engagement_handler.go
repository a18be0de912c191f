package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

type LikeResponse struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

// ToggleLike атомарно переключает лайк текущего пользователя.
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	liked, count, err := h.EngagementService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "не найден") {
			WriteError(w, "Пост не найден", http.StatusNotFound)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, LikeResponse{Liked: liked, Count: count}, http.StatusOK)
}

// GetLikeState отдаёт счётчик лайков и флаг "лайкнуто" для текущего
// пользователя (для анонима флаг всегда false).
func (h *Handlers) GetLikeState(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("userID").(string)
	postID := mux.Vars(r)["id"]

	liked, count, err := h.EngagementService.LikeState(r.Context(), postID, userID)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, LikeResponse{Liked: liked, Count: count}, http.StatusOK)
}

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	comments, err := h.EngagementService.GetComments(r.Context(), postID, page)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, comments, http.StatusOK)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req struct {
		Content string `json:"content" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		WriteError(w, "Текст комментария пуст", http.StatusBadRequest)
		return
	}

	comment, err := h.EngagementService.CreateComment(r.Context(), mux.Vars(r)["id"], userID, req.Content)
	if err != nil {
		if strings.Contains(err.Error(), "не найден") {
			WriteError(w, "Пост не найден", http.StatusNotFound)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, comment, http.StatusCreated)
}
