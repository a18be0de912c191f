package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pagedraft/internal/models"
	"pagedraft/internal/session"
)

// Remote - реализация ContentService поверх HTTP API PageDraft.
// Токен берётся из session.Store; логин/логаут обновляют его там же.
type Remote struct {
	baseURL string
	http    *http.Client
	session *session.Store
}

func NewRemote(baseURL string, store *session.Store) *Remote {
	return &Remote{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: store,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type authResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type likeResponse struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

func (r *Remote) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	// Тело буферизуется заранее: после 401 запрос повторяется
	// с перевыпущенным токеном, а io.Reader второй раз не прочитать.
	var payload []byte
	if body != nil {
		var err error
		payload, err = io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("ошибка чтения тела запроса: %w", err)
		}
	}

	resp, err := r.send(ctx, method, path, payload, contentType)
	if err != nil {
		return err
	}

	// Истёкший access-токен перевыпускается по refresh-токену, запрос
	// уходит повторно один раз. Неудачный перевыпуск сбрасывает сессию.
	if resp.StatusCode == http.StatusUnauthorized && !strings.HasPrefix(path, "/api/auth/") {
		resp.Body.Close()

		if r.session.Current().RefreshToken == "" {
			r.session.Clear()
			return fmt.Errorf("сервис вернул статус %d", http.StatusUnauthorized)
		}

		if err := r.refreshSession(ctx); err != nil {
			r.session.Clear()
			return err
		}

		resp, err = r.send(ctx, method, path, payload, contentType)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("сервис вернул ошибку: %s", errResp.Error)
		}
		return fmt.Errorf("сервис вернул статус %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("ошибка разбора ответа: %w", err)
		}
	}

	return nil
}

func (r *Remote) send(ctx context.Context, method, path string, payload []byte, contentType string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token := r.session.Current().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к сервису: %w", err)
	}

	return resp, nil
}

// refreshSession перевыпускает пару токенов по сохранённому refresh-токену.
func (r *Remote) refreshSession(ctx context.Context) error {
	payload := map[string]string{"refreshToken": r.session.Current().RefreshToken}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	resp, err := r.send(ctx, http.MethodPost, "/api/auth/refresh-token", data, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("сессия истекла, требуется повторный вход")
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return fmt.Errorf("ошибка разбора ответа: %w", err)
	}

	r.session.SetWithRefresh(auth.AccessToken, auth.RefreshToken, auth.User)
	return nil
}

func (r *Remote) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}
	return r.do(ctx, method, path, bytes.NewReader(data), "application/json", out)
}

func (r *Remote) ListPosts(ctx context.Context, page, perPage int, search, tag string) (*PostList, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(perPage))
	if search != "" {
		params.Set("search", search)
	}
	if tag != "" {
		params.Set("tag", tag)
	}

	var list PostList
	err := r.do(ctx, http.MethodGet, "/api/posts?"+params.Encode(), nil, "", &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *Remote) ListByAuthor(ctx context.Context, authorID string, page, perPage int) (*PostList, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(perPage))
	params.Set("author", authorID)

	var list PostList
	err := r.do(ctx, http.MethodGet, "/api/posts?"+params.Encode(), nil, "", &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *Remote) GetPost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	var post models.Post
	err := r.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(idOrSlug), nil, "", &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// postForm собирает multipart-тело формы поста (изображение может отсутствовать).
func postForm(form PostForm) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":   form.Title,
		"content": form.Content,
		"excerpt": form.Excerpt,
		"slug":    form.Slug,
		"status":  form.Status,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("ошибка записи поля %s: %w", name, err)
		}
	}

	for _, tag := range form.Tags {
		if err := w.WriteField("tags", tag); err != nil {
			return nil, "", fmt.Errorf("ошибка записи тега: %w", err)
		}
	}

	if form.PublishedAt != nil {
		if err := w.WriteField("publishedAt", form.PublishedAt.Format(time.RFC3339)); err != nil {
			return nil, "", fmt.Errorf("ошибка записи publishedAt: %w", err)
		}
	}

	if form.Image != nil {
		part, err := w.CreateFormFile("image", form.Image.Name)
		if err != nil {
			return nil, "", fmt.Errorf("ошибка записи файла: %w", err)
		}
		if _, err := io.Copy(part, form.Image.Reader); err != nil {
			return nil, "", fmt.Errorf("ошибка копирования файла: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("ошибка завершения формы: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func (r *Remote) CreatePost(ctx context.Context, form PostForm) (*models.Post, error) {
	body, contentType, err := postForm(form)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.do(ctx, http.MethodPost, "/api/posts", body, contentType, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *Remote) UpdatePost(ctx context.Context, postID string, form PostForm) (*models.Post, error) {
	body, contentType, err := postForm(form)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(postID), body, contentType, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *Remote) DeletePost(ctx context.Context, postID string) error {
	return r.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID), nil, "", nil)
}

func (r *Remote) ToggleLike(ctx context.Context, postID string) (bool, int, error) {
	var resp likeResponse
	err := r.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", nil, "", &resp)
	if err != nil {
		return false, 0, err
	}
	return resp.Liked, resp.Count, nil
}

func (r *Remote) LikeState(ctx context.Context, postID string) (bool, int, error) {
	var resp likeResponse
	err := r.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID)+"/like", nil, "", &resp)
	if err != nil {
		return false, 0, err
	}
	return resp.Liked, resp.Count, nil
}

func (r *Remote) GetComments(ctx context.Context, postID string, page int) ([]models.Comment, error) {
	var comments []models.Comment
	path := fmt.Sprintf("/api/posts/%s/comments?page=%d", url.PathEscape(postID), page)
	err := r.do(ctx, http.MethodGet, path, nil, "", &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *Remote) CreateComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	var comment models.Comment
	payload := map[string]string{"content": content}
	err := r.doJSON(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comments", payload, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *Remote) GetActivities(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.do(ctx, http.MethodGet, "/api/activities", nil, "", &activities)
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *Remote) Login(ctx context.Context, email, password string) error {
	payload := map[string]string{"email": email, "password": password}

	var resp authResponse
	err := r.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, &resp)
	if err != nil {
		return err
	}

	r.session.SetWithRefresh(resp.AccessToken, resp.RefreshToken, resp.User)
	return nil
}

func (r *Remote) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}

	err := r.doJSON(ctx, http.MethodPost, "/api/auth/register", payload, nil)
	if err != nil {
		return err
	}

	// Как и в оригинале: сразу после регистрации выполняется вход
	return r.Login(ctx, email, password)
}

func (r *Remote) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return r.doJSON(ctx, http.MethodPost, "/api/auth/password-reset", payload, nil)
}

// LoginWithOAuth заявлен контрактом, но собственный сервис OAuth не предоставляет.
func (r *Remote) LoginWithOAuth(ctx context.Context, provider string) error {
	return fmt.Errorf("вход через %s не поддерживается", provider)
}

func (r *Remote) UpdateProfile(ctx context.Context, name string, avatar *FileUpload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", name); err != nil {
		return fmt.Errorf("ошибка записи поля name: %w", err)
	}

	if avatar != nil {
		part, err := w.CreateFormFile("avatar", avatar.Name)
		if err != nil {
			return fmt.Errorf("ошибка записи файла: %w", err)
		}
		if _, err := io.Copy(part, avatar.Reader); err != nil {
			return fmt.Errorf("ошибка копирования файла: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("ошибка завершения формы: %w", err)
	}

	var user models.User
	err := r.do(ctx, http.MethodPut, "/api/profile", &buf, w.FormDataContentType(), &user)
	if err != nil {
		return err
	}

	// Обновление профиля обновляет и сессию, токены остаются прежними
	current := r.session.Current()
	r.session.SetWithRefresh(current.Token, current.RefreshToken, &user)
	return nil
}

func (r *Remote) Logout() {
	r.session.Clear()
}

func (r *Remote) FileURL(collection, recordID, fileName string) string {
	if fileName == "" || recordID == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/files/%s/%s/%s", r.baseURL, collection, recordID, fileName)
}
