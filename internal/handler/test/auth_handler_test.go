package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pagedraft/internal/models"
	"pagedraft/internal/repository"
)

// assertJSONError checks the JSON response with an error
func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], expectedError)
}

func withUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), "userID", userID)
	return req.WithContext(ctx)
}

func testUser() *models.User {
	return &models.User{
		UserID: "user-123",
		Name:   "Тестовый автор",
		Email:  "test@example.com",
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	requestBody := map[string]interface{}{
		"name":     "Тестовый автор",
		"email":    "test@example.com",
		"password": "password123",
	}

	// Setting up mock
	mocks.Auth.On("Register", mock.Anything, repository.CreateUserRequest{
		Name:     "Тестовый автор",
		Email:    "test@example.com",
		Password: "password123",
	}).Return(testUser(), nil)

	mocks.Auth.On("Login", mock.Anything, "test@example.com", "password123").
		Return(testUser(), "access-token-123", "refresh-token-123", nil)

	mocks.User.On("AvatarURL", mock.Anything).Return("")

	body, _ := json.Marshal(requestBody)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	// Act
	handler.Register(rr, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rr.Code)

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)

	assert.Equal(t, "access-token-123", response["accessToken"])
	assert.Equal(t, "refresh-token-123", response["refreshToken"])

	userData, ok := response["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "user-123", userData["userId"])
	assert.Equal(t, "test@example.com", userData["email"])

	mocks.Auth.AssertExpectations(t)
}

func TestRegisterHandler_InvalidEmail(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "not-an-email",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	// Act
	handler.Register(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusBadRequest, "Неверный формат email")
	mocks.Auth.AssertNotCalled(t, "Register")
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	handler, _ := newTestHandlers()

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "test@example.com",
		"password": "short",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	handler.Register(rr, req)

	assertJSONError(t, rr, http.StatusBadRequest, "Пароль должен быть не менее 8 символов")
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.Auth.On("Register", mock.Anything, mock.Anything).
		Return(nil, errors.New("пользователь с таким email уже существует"))

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "dup@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	// Act
	handler.Register(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusForbidden, "Email уже существует")
}

func TestLoginHandler_Success(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.Auth.On("Login", mock.Anything, "test@example.com", "password123").
		Return(testUser(), "access-token-123", "refresh-token-123", nil)
	mocks.User.On("AvatarURL", mock.Anything).Return("http://localhost:9000/pagedraft/users/user-123/a.png")

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "test@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	// Act
	handler.Login(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "access-token-123", response["accessToken"])

	userData := response["user"].(map[string]interface{})
	assert.Equal(t, "http://localhost:9000/pagedraft/users/user-123/a.png", userData["avatar"])

	mocks.Auth.AssertExpectations(t)
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.Auth.On("Login", mock.Anything, "test@example.com", "wrong").
		Return(nil, "", "", errors.New("неверный пароль"))

	body, _ := json.Marshal(map[string]interface{}{
		"email":    "test@example.com",
		"password": "wrong",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	// Act
	handler.Login(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusForbidden, "Неверный email или пароль")
}

func TestRefreshTokenHandler_Success(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.Auth.On("RefreshTokens", mock.Anything, "old-refresh-token").
		Return(testUser(), "new-access", "new-refresh", nil)
	mocks.User.On("AvatarURL", mock.Anything).Return("")

	body, _ := json.Marshal(map[string]string{"refreshToken": "old-refresh-token"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	// Act
	handler.RefreshToken(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "new-refresh", response["refreshToken"])
}

func TestRefreshTokenHandler_Expired(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.Auth.On("RefreshTokens", mock.Anything, "expired").
		Return(nil, "", "", errors.New("refresh token не найден или истёк"))

	body, _ := json.Marshal(map[string]string{"refreshToken": "expired"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	// Act
	handler.RefreshToken(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusBadRequest, "Refresh Token истек или недействителен")
}

func TestPasswordResetHandler_AlwaysOK(t *testing.T) {
	// Ответ не должен раскрывать, существует ли адрес
	handler, mocks := newTestHandlers()

	mocks.Auth.On("RequestPasswordReset", mock.Anything, "unknown@example.com").
		Return(errors.New("пользователь с email unknown@example.com не найден"))

	body, _ := json.Marshal(map[string]string{"email": "unknown@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	handler.PasswordReset(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetCurrentUserHandler_Success(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.User.On("GetProfile", mock.Anything, "user-123").Return(testUser(), nil)
	mocks.User.On("AvatarURL", mock.Anything).Return("")

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), "user-123")
	rr := httptest.NewRecorder()

	// Act
	handler.GetCurrentUser(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", response["userId"])
}

func TestGetCurrentUserHandler_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rr := httptest.NewRecorder()

	handler.GetCurrentUser(rr, req)

	assertJSONError(t, rr, http.StatusUnauthorized, "Требуется аутентификация")
}

func TestGetActivitiesHandler_Success(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	activities := []models.Activity{
		{ActivityID: "act-1", UserID: "user-123", Type: models.ActivityPost, Description: "published a new draft"},
	}
	mocks.User.On("GetActivities", mock.Anything, "user-123").Return(activities, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/activities", nil), "user-123")
	rr := httptest.NewRecorder()

	// Act
	handler.GetActivities(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "act-1", response[0]["activityId"])
}
