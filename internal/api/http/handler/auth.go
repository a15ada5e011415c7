package handler

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
)

// UserService is the slice of the user entity service auth needs.
type UserService interface {
	Create(ctx context.Context, user model.User) model.Result[model.User]
	FindOne(ctx context.Context, query model.QuerySpec) model.Result[*model.User]
	FindByID(ctx context.Context, id string, populate ...model.PopulateSpec) model.Result[*model.User]
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(subjectID string) model.Result[string]
}

// Auth handles registration, login and identity lookup.
type Auth struct {
	users  UserService
	tokens TokenIssuer
	ctxMgr model.ContextManager
	logger *logger.Logger
}

// NewAuth creates the auth controller.
func NewAuth(users UserService, tokens TokenIssuer, ctxMgr model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{users: users, tokens: tokens, ctxMgr: ctxMgr, logger: logger}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Signup registers a user and issues a token for it.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}

	violations := make([]model.Violation, 0)
	if req.Name == "" {
		violations = append(violations, model.Violation{Path: "name", Message: "required"})
	}
	if req.Email == "" {
		violations = append(violations, model.Violation{Path: "email", Message: "required"})
	}
	if req.Password == "" {
		violations = append(violations, model.Violation{Path: "password", Message: "required"})
	}
	if len(violations) > 0 {
		WriteError(w, model.NewValidationError(violations))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		WriteError(w, model.NewError("No se pudo registrar el usuario", 0))
		return
	}

	result := h.users.Create(r.Context(), model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	})
	if !result.IsOk() {
		WriteError(w, result.Err())
		return
	}

	user := result.Value()
	user.Password = ""
	tokenResult := h.tokens.Issue(user.ID)
	if !tokenResult.IsOk() {
		WriteError(w, tokenResult.Err())
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: tokenResult.Value()})
}

// Login verifies credentials and issues a token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}

	result := h.users.FindOne(r.Context(), model.QuerySpec{"email": req.Email})
	if !result.IsOk() {
		WriteError(w, result.Err())
		return
	}

	user := result.Value()
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		WriteError(w, model.NewUnauthorized("credenciales inválidas"))
		return
	}

	tokenResult := h.tokens.Issue(user.ID)
	if !tokenResult.IsOk() {
		WriteError(w, tokenResult.Err())
		return
	}

	loggedIn := *user
	loggedIn.Password = ""
	writeJSON(w, http.StatusOK, sessionResponse{User: loggedIn, Token: tokenResult.Value()})
}

// Me returns the authenticated user.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := h.ctxMgr.SubjectID(r.Context())
	if !ok {
		WriteError(w, model.NewUnauthorized("token not found, authorization denied"))
		return
	}

	result := h.users.FindByID(r.Context(), subjectID)
	if !result.IsOk() {
		WriteError(w, result.Err())
		return
	}
	if result.Value() == nil {
		WriteError(w, model.NewNotFound("usuario no encontrado"))
		return
	}

	user := *result.Value()
	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}
