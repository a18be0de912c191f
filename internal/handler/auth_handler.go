package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"pagedraft/internal/repository"
	"pagedraft/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserResponse struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		if strings.Contains(err.Error(), "Email") {
			WriteError(w, "Неверный формат email", http.StatusBadRequest)
		} else if strings.Contains(err.Error(), "Password") {
			WriteError(w, "Пароль должен быть не менее 8 символов", http.StatusBadRequest)
		} else {
			WriteError(w, "Неверные данные", http.StatusBadRequest)
		}
		return
	}

	serviceReq := repository.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	// registering a user in the service
	_, err := h.AuthService.Register(r.Context(), serviceReq)
	if err != nil {
		if strings.Contains(err.Error(), "уже существует") {
			WriteError(w, "Email уже существует", http.StatusForbidden)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// logging in right after registration
	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			UserId: user.UserID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: h.UserService.AvatarURL(user),
		},
	}

	WriteSuccess(w, response, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		if strings.Contains(err.Error(), "Email") {
			WriteError(w, "Неверный формат email", http.StatusBadRequest)
		} else {
			WriteError(w, "Неверные данные", http.StatusBadRequest)
		}
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, "Неверный email или пароль", http.StatusForbidden)
		return
	}

	response := AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			UserId: user.UserID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: h.UserService.AvatarURL(user),
		},
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.RefreshToken == "" {
		WriteError(w, "Отсуствует refreshToken", http.StatusBadRequest)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, "Refresh Token истек или недействителен", http.StatusBadRequest)
		return
	}

	response := AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			UserId: user.UserID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: h.UserService.AvatarURL(user),
		},
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверный формат email", http.StatusBadRequest)
		return
	}

	err := h.AuthService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		// Не раскрываем, существует ли адрес
		WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
		return
	}

	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		WriteError(w, err.Error(), http.StatusNotFound)
		return
	}

	response := UserResponse{
		UserId: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: h.UserService.AvatarURL(user),
	}

	WriteSuccess(w, response, http.StatusOK)
}

// UpdateProfile принимает multipart-форму: name и необязательный файл avatar.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Неверный формат формы", http.StatusBadRequest)
		return
	}

	serviceReq := service.UpdateProfileRequest{
		UserID: userID,
		Name:   r.FormValue("name"),
	}

	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()

		if msg, ok := checkUploadSize(header.Size, h.Cfg.MaxUploadSize); !ok {
			WriteError(w, msg, http.StatusRequestEntityTooLarge)
			return
		}

		serviceReq.Avatar = file
		serviceReq.AvatarName = header.Filename
		serviceReq.AvatarSize = header.Size
	}

	user, err := h.UserService.UpdateProfile(r.Context(), serviceReq)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := UserResponse{
		UserId: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: h.UserService.AvatarURL(user),
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) GetActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	activities, err := h.UserService.GetActivities(r.Context(), userID)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, activities, http.StatusOK)
}
