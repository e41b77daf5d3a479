package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/internal/auth"
	"github.com/siddhardh4356/slipwise/internal/notify"
	"github.com/siddhardh4356/slipwise/internal/storage"
	"github.com/siddhardh4356/slipwise/pkg/api"
	"github.com/siddhardh4356/slipwise/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// passwordResetTTL is how long an emailed reset link stays valid.
const passwordResetTTL = time.Hour

// AccountStore is the storage AuthService needs.
type AccountStore interface {
	storage.UserStore
	storage.PasswordResetStore
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         AccountStore
	logger        *slog.Logger

	// mailer is nil when password reset is not configured.
	mailer notify.Mailer
	appURL string
	now    func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users AccountStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
		now:           time.Now,
	}
}

// WithPasswordReset returns a copy that emails reset links through mailer.
// Links point at appURL/reset-password.
func (s *AuthService) WithPasswordReset(mailer notify.Mailer, appURL string) *AuthService {
	c := *s
	c.mailer = mailer
	c.appURL = strings.TrimRight(appURL, "/")
	return &c
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	if strings.TrimSpace(req.Msg.Email) == "" || strings.TrimSpace(req.Msg.Name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("email and name are required"))
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.Name, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return connect.NewResponse(&api.RegisterResponse{User: toAPIUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{User: toAPIUser(user), Token: token}), nil
}

// GetCurrentUser returns the account behind the caller's token.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// RequestPasswordReset emails a single-use reset link. The response is the
// same for unknown emails, so it does not reveal which are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *connect.Request[api.RequestPasswordResetRequest]) (*connect.Response[api.RequestPasswordResetResponse], error) {
	if s.mailer == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("password reset is not configured"))
	}
	email := auth.NormalizeEmail(req.Msg.Email)
	if email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("email required"))
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("Password reset requested for unknown email")
		return connect.NewResponse(&api.RequestPasswordResetResponse{}), nil
	case err != nil:
		s.logger.Error("RequestPasswordReset failed", "error", err)
		return nil, storageError(err)
	}

	token, hash := auth.NewResetToken()
	expiresAt := s.now().Add(passwordResetTTL).Unix()
	if err := s.users.CreatePasswordReset(ctx, user.ID, hash, expiresAt); err != nil {
		s.logger.Error("Failed to store password reset", "user_id", user.ID, "error", err)
		return nil, storageError(err)
	}

	link := s.appURL + "/reset-password?token=" + url.QueryEscape(token)
	subject, body := notify.PasswordResetMessage(user.Name, link, passwordResetTTL)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		// Not surfaced: a failure here would reveal that the account exists.
		s.logger.Error("Failed to send password reset email", "user_id", user.ID, "error", err)
		return connect.NewResponse(&api.RequestPasswordResetResponse{}), nil
	}

	s.logger.Info("Password reset email sent", "user_id", user.ID)
	return connect.NewResponse(&api.RequestPasswordResetResponse{}), nil
}

// ResetPassword sets a new password using a token from RequestPasswordReset.
// Every outstanding token of the user is consumed.
func (s *AuthService) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error) {
	token := strings.TrimSpace(req.Msg.Token)
	if token == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("token required"))
	}

	hash, err := s.authenticator.HashCredential(req.Msg.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	userID, err := s.users.ResetPassword(ctx, auth.HashResetToken(token), hash, s.now().Unix())
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("Password reset with invalid or expired token")
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("reset link is invalid or has expired"))
	}
	if err != nil {
		s.logger.Error("ResetPassword failed", "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("Password reset", "user_id", userID)
	return connect.NewResponse(&api.ResetPasswordResponse{}), nil
}
