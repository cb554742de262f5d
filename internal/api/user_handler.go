package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/platform/avatar"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// avatarFormField is the multipart field carrying the upload.
const avatarFormField = "avatar"

// maxMultipartMemory bounds the in-memory part of a parsed multipart form.
const maxMultipartMemory = 2 << 20

// UserHandler handles account, session and avatar requests.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: log.With(slog.String("component", "user_handler")),
	}
}

// Signup handles POST /users.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, token, err := h.users.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Message: "user signed up successfully",
		User:    user.Public(),
		Token:   token,
	})
}

// Login handles POST /users/login. Unknown email and wrong password get the
// same response.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, service.ErrInvalidCredentials, "")
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Message: "user logged in successfully",
		User:    user.Public(),
		Token:   token,
	})
}

// Logout handles POST /users/logout, revoking the token of this request.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, token, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	if err := h.users.Logout(r.Context(), user, token); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "user logged out successfully")
}

// LogoutAll handles POST /users/logoutAll.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	if err := h.users.LogoutAll(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "user logged out from all sessions")
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user.Public())
}

// Update handles PATCH /users/me.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	raw, err := shared.DecodeObject(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.users.Update(r.Context(), user, raw)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		Message: "user details updated successfully",
		User:    updated.Public(),
	})
}

// Delete handles DELETE /users/me. The user's tasks go first.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), user.ID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "user deleted successfully")
}

// UploadAvatar handles POST /users/me/avatar with a multipart "avatar" file.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	// Leave room for multipart framing around a maximum-size file.
	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxBytes+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleAPIError(w, r, avatar.ErrTooLarge, "")
			return
		}
		HandleAPIError(w, r, avatar.ErrMissingFile, "")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		HandleAPIError(w, r, avatar.ErrMissingFile, "")
		return
	}
	defer func() { _ = file.Close() }()

	if err := avatar.ValidateFilename(header.Filename); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if header.Size > avatar.MaxBytes {
		HandleAPIError(w, r, avatar.ErrTooLarge, "")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, avatar.MaxBytes+1))
	if err != nil {
		log.Error("failed to read avatar upload", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.users.SetAvatar(r.Context(), user.ID, header.Filename, data); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "profile pic uploaded successfully")
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	if err := h.users.ClearAvatar(r.Context(), user.ID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "profile pic deleted successfully")
}

// GetAvatar handles GET /users/{id}/avatar. It needs no authentication.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id", store.ErrAvatarNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	data, err := h.users.GetAvatar(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			err = store.ErrAvatarNotFound
		}
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", avatar.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("failed to write avatar",
			slog.String("error", err.Error()))
	}
}
