package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/middleware"
	"github.com/yusufkecer/body-score-backend/internal/repository"
)

const minPasswordLength = 6

type AccountStore interface {
	Create(ctx context.Context, email, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type AuthHandler struct {
	logger    lager.Logger
	clock     clock.Clock
	jwtSecret string
	accounts  AccountStore
}

func NewAuthHandler(logger lager.Logger, clk clock.Clock, jwtSecret string, accounts AccountStore) *AuthHandler {
	return &AuthHandler{
		logger:    logger.Session("auth-handler"),
		clock:     clk,
		jwtSecret: jwtSecret,
		accounts:  accounts,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("register")

	email, password, ok := readCredentials(w, r)
	if !ok {
		return
	}
	if len(password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed-to-hash-password", err)
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	accountID, err := h.accounts.Create(r.Context(), email, string(passwordHash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already exists")
			return
		}
		logger.Error("failed-to-create-account", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.respondWithToken(w, logger, http.StatusCreated, accountID, email)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("login")

	email, password, ok := readCredentials(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.GetByEmail(r.Context(), email)
	if err != nil {
		logger.Error("failed-to-get-account", err)
		writeError(w, http.StatusInternalServerError, "failed to login")
		return
	}
	if account == nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.respondWithToken(w, logger, http.StatusOK, account.ID, account.Email)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, logger lager.Logger, status int, accountID int64, email string) {
	token, err := middleware.GenerateToken(accountID, email, h.jwtSecret, h.clock.Now())
	if err != nil {
		logger.Error("failed-to-generate-token", err)
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	writeJSON(w, status, domain.TokenResponse{Token: token})
}

func readCredentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var req domain.TokenRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", "", false
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return "", "", false
	}
	if !validEmail(email) {
		writeError(w, http.StatusBadRequest, "invalid email format")
		return "", "", false
	}
	return email, req.Password, true
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}
