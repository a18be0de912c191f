package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagedraft/internal/models"
	"pagedraft/internal/router"
	"pagedraft/internal/session"
)

func TestRemote_RefreshRetryOn401(t *testing.T) {
	// Arrange
	var commentCalls, refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts/post-1/comments", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&commentCalls, 1)

		if r.Header.Get("Authorization") != "Bearer new-access" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Недействительный токен"})
			return
		}

		json.NewEncoder(w).Encode(models.Comment{
			CommentID: "comment-1",
			PostID:    "post-1",
			Content:   "Привет",
		})
	})
	mux.HandleFunc("/api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)

		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "refresh-old", req.RefreshToken)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"accessToken":  "new-access",
			"refreshToken": "refresh-new",
			"user":         models.User{UserID: "user-1", Name: "Автор"},
		})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := session.NewStore()
	store.SetWithRefresh("stale-access", "refresh-old", &models.User{UserID: "user-1"})
	remote := NewRemote(server.URL, store)

	// Act
	comment, err := remote.CreateComment(context.Background(), "post-1", "Привет")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "comment-1", comment.CommentID)
	assert.EqualValues(t, 2, atomic.LoadInt32(&commentCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, "new-access", store.Current().Token)
	assert.Equal(t, "refresh-new", store.Current().RefreshToken)
}

func TestRemote_FailedRefreshClearsSession(t *testing.T) {
	// Arrange: сервер отвечает 401 на всё, включая перевыпуск токена
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Недействительный токен"})
	}))
	defer server.Close()

	store := session.NewStore()
	store.SetWithRefresh("stale-access", "refresh-old", &models.User{UserID: "user-1"})
	remote := NewRemote(server.URL, store)

	// Act
	_, err := remote.CreateComment(context.Background(), "post-1", "Привет")

	// Assert: сессия сброшена, шлюз маршрутов уводит на вход
	require.Error(t, err)
	assert.Contains(t, err.Error(), "повторный вход")
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
	assert.False(t, store.Valid())

	decision := router.Decide("#/create-post", store.Valid())
	assert.Equal(t, router.FragmentLogin, decision.Redirect)
}

func TestRemote_NoRefreshTokenClearsSessionOn401(t *testing.T) {
	// Arrange: сессия без refresh-токена, повторять запрос нечем
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := session.NewStore()
	store.Set("stale-access", &models.User{UserID: "user-1"})
	remote := NewRemote(server.URL, store)

	// Act
	_, err := remote.CreateComment(context.Background(), "post-1", "Привет")

	// Assert
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
	assert.False(t, store.Valid())
}

func TestRemote_AuthEndpointsAreNotRetried(t *testing.T) {
	// Arrange: неверный пароль не должен запускать перевыпуск токена
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Неверный email или пароль"})
	}))
	defer server.Close()

	store := session.NewStore()
	remote := NewRemote(server.URL, store)

	// Act
	err := remote.Login(context.Background(), "user@example.com", "wrong-password")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Неверный email или пароль")
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}
