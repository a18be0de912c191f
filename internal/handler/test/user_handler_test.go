package test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetUserHandler_PublicProfile(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.User.On("GetProfile", mock.Anything, "user-123").Return(testUser(), nil)
	mocks.User.On("AvatarURL", mock.Anything).Return("")

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-123", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "user-123"})
	rr := httptest.NewRecorder()

	// Act
	handler.GetUser(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", response["userId"])
	assert.Equal(t, "Тестовый автор", response["name"])

	// Публичный профиль не содержит email
	_, hasEmail := response["email"]
	assert.False(t, hasEmail)
}

func TestGetUserHandler_NotFound(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.User.On("GetProfile", mock.Anything, "missing").
		Return(nil, errors.New("пользователь с ID missing не найден"))

	req := httptest.NewRequest(http.MethodGet, "/api/users/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rr := httptest.NewRecorder()

	// Act
	handler.GetUser(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusNotFound, "Пользователь не найден")
}

func TestDeleteUserHandler_OwnAccount(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	mocks.User.On("DeleteAccount", mock.Anything, "user-123").Return(nil)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/users/user-123", nil), "user-123")
	req = mux.SetURLVars(req, map[string]string{"id": "user-123"})
	rr := httptest.NewRecorder()

	// Act
	handler.DeleteUser(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	mocks.User.AssertExpectations(t)
}

func TestDeleteUserHandler_ForeignAccount(t *testing.T) {
	// Arrange
	handler, mocks := newTestHandlers()

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/users/user-999", nil), "user-123")
	req = mux.SetURLVars(req, map[string]string{"id": "user-999"})
	rr := httptest.NewRecorder()

	// Act
	handler.DeleteUser(rr, req)

	// Assert
	assertJSONError(t, rr, http.StatusForbidden, "Нет прав")
	mocks.User.AssertNotCalled(t, "DeleteAccount")
}

func TestDeleteUserHandler_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodDelete, "/api/users/user-123", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "user-123"})
	rr := httptest.NewRecorder()

	handler.DeleteUser(rr, req)

	assertJSONError(t, rr, http.StatusUnauthorized, "Требуется аутентификация")
}
