package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"mapmeet/globals"
	"mapmeet/middleware"
	"mapmeet/models"
	"mapmeet/rdx"
	"mapmeet/utils"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Handler struct {
	Users models.UserStore
	Now   func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Email == "" || payload.Password == "" || payload.Username == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	if _, err := h.Users.GetByEmail(r.Context(), payload.Email); err == nil {
		utils.RespondWithError(w, http.StatusConflict, "an account with that email already exists")
		return
	}

	now := h.now()
	user := models.User{
		UserID:        utils.GenerateID(14),
		Username:      payload.Username,
		Email:         payload.Email,
		PasswordHash:  utils.EncodePassword(payload.Password),
		Notifications: models.DefaultNotificationSettings(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Users.Insert(r.Context(), user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.respondWithTokens(w, r, user)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))

	user, err := h.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.PasswordHash != utils.EncodePassword(payload.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	user.LastLogin = h.now()
	h.respondWithTokens(w, r, user)
}

// Refresh handles POST /api/auth/token/refresh with {"userid", "refresh_token"}.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		UserID       string `json:"userid"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.Get(r.Context(), payload.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if user.RefreshHash == "" || h.now().After(user.RefreshExpiry) {
		utils.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.RefreshHash), []byte(payload.RefreshToken)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	h.respondWithTokens(w, r, user)
}

// Logout handles POST /api/auth/logout. It clears the stored refresh
// token so the session cannot be renewed.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "account not found")
		return
	}

	user.RefreshHash = ""
	user.RefreshExpiry = time.Time{}
	if err := h.Users.Update(r.Context(), user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	if rdx.Conn != nil {
		if err := rdx.RdxHdel("tokki", userID); err != nil {
			log.Printf("token cache clear failed: %v", err)
		}
	}

	utils.SendResponse(w, http.StatusOK, nil, "logged out", nil)
}

func (h *Handler) respondWithTokens(w http.ResponseWriter, r *http.Request, user models.User) {
	now := h.now()
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.UserID,
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	refreshToken := utils.GenerateRandomString(32)
	refreshHash, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to issue refresh token")
		return
	}

	user.RefreshHash = string(refreshHash)
	user.RefreshExpiry = now.Add(refreshTokenTTL)
	user.UpdatedAt = now
	if err := h.Users.Update(r.Context(), user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to persist session")
		return
	}

	if rdx.Conn != nil {
		if err := rdx.RdxHset("tokki", user.UserID, accessToken); err != nil {
			log.Printf("token cache write failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}
