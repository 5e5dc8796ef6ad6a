package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/mail"
	"github.com/gauravsharma29/Dev-Camper-API/internal/security"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

const msgInvalidCredentials = "Invalid Credentials"

type AuthService struct {
	users    UserStore
	tokens   TokenIssuer
	denylist auth.Denylist
	mailer   mail.Mailer
	resetTTL time.Duration
	log      *slog.Logger
	now      func() time.Time
}

type AuthDeps struct {
	Users         UserStore
	Tokens        TokenIssuer
	Denylist      auth.Denylist
	Mailer        mail.Mailer
	ResetTokenTTL time.Duration
	Logger        *slog.Logger
}

func NewAuthService(d AuthDeps) *AuthService {
	ttl := d.ResetTokenTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	return &AuthService{
		users:    d.Users,
		tokens:   d.Tokens,
		denylist: d.Denylist,
		mailer:   d.Mailer,
		resetTTL: ttl,
		log:      log,
		now:      time.Now,
	}
}

// Session is what a successful credential check hands back to the transport.
type Session struct {
	User   user.User
	Token  string
	Claims *auth.Claims
}

func (s *AuthService) issue(u user.User) (Session, error) {
	tok, claims, err := s.tokens.GenerateToken(u.ID, u.Role)
	if err != nil {
		return Session{}, apperr.Internal("Server Error", err)
	}
	return Session{User: u, Token: tok, Claims: claims}, nil
}

func (s *AuthService) Register(ctx context.Context, req user.RegisterRequest) (Session, error) {
	u := user.User{
		Name:  strings.TrimSpace(req.Name),
		Email: user.NormalizeEmail(req.Email),
		Role:  req.Role,
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}

	var errs validation.Errors
	var ve *validation.Errors
	if errors.As(u.ValidateWithPassword(req.Password), &ve) {
		errs = *ve
	}
	if u.Role == user.RoleAdmin && !errs.Has("role") {
		errs.Add("role", "Please choose a valid role")
	}
	if err := errs.Err(); err != nil {
		return Session{}, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return Session{}, apperr.Internal("Server Error", err)
	}
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return Session{}, err
	}

	return s.issue(created)
}

func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (Session, error) {
	email := user.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return Session{}, apperr.BadRequest("Please provide an email and password")
	}

	u, err := s.users.GetCredentialsByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return Session{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return Session{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return Session{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return Session{}, err
	}

	u.PasswordHash = ""
	return s.issue(u)
}

// Logout revokes the presented token until its own expiry.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.TokenID() == "" || s.denylist == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.TokenID(), claims.ExpiresAtTime())
}

func (s *AuthService) Me(ctx context.Context, id string) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, apperr.NotFound(fmt.Sprintf("No user with the id of %s", id))
	}
	return u, err
}

// UpdateDetails changes name and email; blank fields keep their value.
func (s *AuthService) UpdateDetails(ctx context.Context, id string, req user.UpdateDetailsRequest) (user.User, error) {
	u, err := s.Me(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		u.Name = name
	}
	if email := user.NormalizeEmail(req.Email); email != "" {
		u.Email = email
	}

	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	return s.users.Update(ctx, u)
}

func (s *AuthService) UpdatePassword(ctx context.Context, id string, req user.UpdatePasswordRequest) (Session, error) {
	u, err := s.users.GetCredentialsByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return Session{}, apperr.NotFound(fmt.Sprintf("No user with the id of %s", id))
	}
	if err != nil {
		return Session{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return Session{}, apperr.Unauthorized("Password is incorrect")
		}
		return Session{}, err
	}

	var errs validation.Errors
	user.ValidatePassword(&errs, "newPassword", req.NewPassword)
	if err := errs.Err(); err != nil {
		return Session{}, err
	}

	if err := s.setPassword(ctx, u.ID, req.NewPassword); err != nil {
		return Session{}, err
	}

	u.PasswordHash = ""
	return s.issue(u)
}

func (s *AuthService) setPassword(ctx context.Context, id, password string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return apperr.Internal("Server Error", err)
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// ForgotPassword stores a hashed reset token and mails the raw one inside the
// link built by resetURL. If the mail cannot be sent the stored token is cleared.
func (s *AuthService) ForgotPassword(ctx context.Context, req user.ForgotPasswordRequest, resetURL func(token string) string) error {
	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(req.Email))
	if errors.Is(err, user.ErrNotFound) {
		return apperr.NotFound("There is no user with that email")
	}
	if err != nil {
		return err
	}

	raw, hashed, err := security.NewResetToken()
	if err != nil {
		return apperr.Internal("Server Error", err)
	}

	expire := s.now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, u.ID, &hashed, &expire); err != nil {
		return err
	}

	msg := mail.Message{
		To:      u.Email,
		Subject: "Password reset token",
		Body: "You are receiving this email because you (or someone else) has requested the reset of a password. " +
			"Please make a PUT request to: \n\n " + resetURL(raw),
	}

	if sendErr := s.mailer.Send(ctx, msg); sendErr != nil {
		s.log.ErrorContext(ctx, "auth.reset_mail_failed", "user_id", u.ID, "err", sendErr)

		if err := s.users.SetResetToken(context.WithoutCancel(ctx), u.ID, nil, nil); err != nil {
			s.log.ErrorContext(ctx, "auth.reset_token_clear_failed", "user_id", u.ID, "err", err)
		}
		return apperr.Internal("Email could not be sent", sendErr)
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken string, req user.ResetPasswordRequest) (Session, error) {
	u, err := s.users.GetByResetToken(ctx, security.HashResetToken(rawToken), s.now())
	if errors.Is(err, user.ErrNotFound) {
		return Session{}, apperr.BadRequest("Invalid Token")
	}
	if err != nil {
		return Session{}, err
	}

	var errs validation.Errors
	user.ValidatePassword(&errs, "password", req.Password)
	if err := errs.Err(); err != nil {
		return Session{}, err
	}

	if err := s.setPassword(ctx, u.ID, req.Password); err != nil {
		return Session{}, err
	}

	return s.issue(u)
}
