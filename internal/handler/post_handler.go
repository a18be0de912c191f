package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"pagedraft/internal/models"
	"pagedraft/internal/service"
)

// GetPosts отдаёт страницу видимых постов с поиском и фильтром по тегу.
// С параметром author возвращаются все посты автора (только свои).
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = h.Cfg.Client.PostsPerPage
	}

	if authorID := r.URL.Query().Get("author"); authorID != "" {
		userID, _ := r.Context().Value("userID").(string)
		if userID == "" || userID != authorID {
			WriteError(w, "Доступ запрещен", http.StatusForbidden)
			return
		}

		result, err := h.FeedService.ListByAuthor(r.Context(), authorID, page, limit)
		if err != nil {
			WriteError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		WriteSuccess(w, result, http.StatusOK)
		return
	}

	result, err := h.FeedService.ListPosts(r.Context(), service.ListPostsRequest{
		Search:  r.URL.Query().Get("search"),
		Tag:     r.URL.Query().Get("tag"),
		Page:    page,
		PerPage: limit,
	})
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, result, http.StatusOK)
}

// GetPost ищет пост по ID с фолбэком на slug.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	idOrSlug := mux.Vars(r)["id"]

	post, err := h.PostService.GetPost(r.Context(), idOrSlug)
	if err != nil {
		WriteError(w, "Пост не найден", http.StatusNotFound)
		return
	}

	// Черновики видит только автор
	if post.Status == models.StatusDraft {
		userID, _ := r.Context().Value("userID").(string)
		if post.AuthorID != userID {
			WriteError(w, "Пост не найден", http.StatusNotFound)
			return
		}
	}

	if post.Image != "" && !strings.HasPrefix(post.Image, "http") {
		post.Image = h.Storage.FileURL("posts", post.PostID, post.Image)
	}

	WriteSuccess(w, post, http.StatusOK)
}

// savePostRequest извлекает поля поста из multipart-формы.
func (h *Handlers) savePostRequest(w http.ResponseWriter, r *http.Request) (*service.SavePostRequest, bool) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Неверный формат формы", http.StatusBadRequest)
		return nil, false
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return nil, false
	}

	req := &service.SavePostRequest{
		AuthorID: userID,
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Excerpt:  r.FormValue("excerpt"),
		Slug:     r.FormValue("slug"),
		Status:   r.FormValue("status"),
		Tags:     r.MultipartForm.Value["tags"],
	}

	if req.Title == "" {
		WriteError(w, "Отсутствует заголовок", http.StatusBadRequest)
		return nil, false
	}

	if req.Status == "" {
		req.Status = models.StatusDraft
	}

	switch req.Status {
	case models.StatusDraft, models.StatusPublished, models.StatusScheduled:
	default:
		WriteError(w, "Недопустимый статус поста", http.StatusBadRequest)
		return nil, false
	}

	if raw := r.FormValue("publishedAt"); raw != "" {
		publishedAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, "Неверный формат publishedAt", http.StatusBadRequest)
			return nil, false
		}
		req.PublishedAt = &publishedAt
	}

	if req.Status == models.StatusScheduled && req.PublishedAt == nil {
		WriteError(w, "Для отложенной публикации требуется publishedAt", http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		if msg, ok := checkUploadSize(header.Size, h.Cfg.MaxUploadSize); !ok {
			file.Close()
			WriteError(w, msg, http.StatusRequestEntityTooLarge)
			return nil, false
		}

		req.Image = file
		req.ImageName = header.Filename
		req.ImageSize = header.Size
	}

	return req, true
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	req, ok := h.savePostRequest(w, r)
	if !ok {
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), *req)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	req, ok := h.savePostRequest(w, r)
	if !ok {
		return
	}

	req.PostID = mux.Vars(r)["id"]

	post, err := h.PostService.UpdatePost(r.Context(), *req)
	if err != nil {
		if strings.Contains(err.Error(), "не найден") {
			WriteError(w, "Пост не найден", http.StatusNotFound)
		} else if strings.Contains(err.Error(), "прав") {
			WriteError(w, "Доступ запрещен", http.StatusForbidden)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	err := h.PostService.DeletePost(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		if strings.Contains(err.Error(), "не найден") {
			WriteError(w, "Пост не найден", http.StatusNotFound)
		} else if strings.Contains(err.Error(), "чужой") {
			WriteError(w, "Доступ запрещен", http.StatusForbidden)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, map[string]string{"status": "deleted"}, http.StatusOK)
}
