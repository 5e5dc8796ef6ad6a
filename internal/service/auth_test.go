package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/mail"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, user.RegisterRequest{Name: "A", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, reg.User.Role)
	assert.Empty(t, reg.User.PasswordHash)

	login, err := f.auth.Login(ctx, user.LoginRequest{Email: "A@X.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), user.RegisterRequest{Email: "bad", Password: "123"})

	var ve *validation.Errors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Please add a name, Please add a valid email, Password must be at least 6 characters", ve.Error())
}

func TestRegister_CannotSelfAssignAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), user.RegisterRequest{
		Name: "Eve", Email: "eve@x.com", Password: "123456", Role: user.RoleAdmin,
	})

	var ve *validation.Errors
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("role"))
}

func TestLogin_NoEnumerationSignal(t *testing.T) {
	f := newFixture(t)
	f.register(t, "John", "john@gmail.com", "")
	ctx := context.Background()

	_, unknown := f.auth.Login(ctx, user.LoginRequest{Email: "nobody@gmail.com", Password: "123456"})
	_, wrong := f.auth.Login(ctx, user.LoginRequest{Email: "john@gmail.com", Password: "wrong-password"})

	require.Error(t, unknown)
	require.Error(t, wrong)
	assert.Equal(t, http.StatusUnauthorized, statusOf(unknown))
	assert.Equal(t, statusOf(unknown), statusOf(wrong))
	assert.Equal(t, "Invalid Credentials", unknown.Error())
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), user.LoginRequest{Email: "john@gmail.com"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Equal(t, "Please provide an email and password", err.Error())
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	actor := f.register(t, "John", "john@gmail.com", "")
	ctx := context.Background()

	_, err := f.auth.UpdatePassword(ctx, actor.ID, user.UpdatePasswordRequest{CurrentPassword: "nope", NewPassword: "abcdef"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	s, err := f.auth.UpdatePassword(ctx, actor.ID, user.UpdatePasswordRequest{CurrentPassword: "123456", NewPassword: "abcdef"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)

	_, err = f.auth.Login(ctx, user.LoginRequest{Email: "john@gmail.com", Password: "abcdef"})
	assert.NoError(t, err)
}

func TestUpdateDetails_KeepsBlankFields(t *testing.T) {
	f := newFixture(t)
	actor := f.register(t, "John", "john@gmail.com", "")

	u, err := f.auth.UpdateDetails(context.Background(), actor.ID, user.UpdateDetailsRequest{Name: "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john@gmail.com", u.Email)
}

func resetURL(token string) string {
	return "http://localhost:5000/api/v1/auth/resetpassword/" + token
}

func tokenFromMail(t *testing.T, msg mail.Message) string {
	t.Helper()

	i := strings.LastIndex(msg.Body, "/resetpassword/")
	require.GreaterOrEqual(t, i, 0)
	return strings.TrimSpace(msg.Body[i+len("/resetpassword/"):])
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	actor := f.register(t, "John", "john@gmail.com", "")
	ctx := context.Background()

	require.NoError(t, f.auth.ForgotPassword(ctx, user.ForgotPasswordRequest{Email: "john@gmail.com"}, resetURL))
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "Password reset token", f.mailer.sent[0].Subject)

	raw := tokenFromMail(t, f.mailer.sent[0])
	stored, _ := f.store.Users().ResetState(actor.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, raw, *stored, "only the hash is persisted")

	s, err := f.auth.ResetPassword(ctx, raw, user.ResetPasswordRequest{Password: "newpass1"})
	require.NoError(t, err)
	assert.Equal(t, actor.ID, s.User.ID)

	tok, exp := f.store.Users().ResetState(actor.ID)
	assert.Nil(t, tok)
	assert.Nil(t, exp)

	_, err = f.auth.ResetPassword(ctx, raw, user.ResetPasswordRequest{Password: "another1"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Equal(t, "Invalid Token", err.Error())
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture(t)
	f.register(t, "John", "john@gmail.com", "")
	ctx := context.Background()

	require.NoError(t, f.auth.ForgotPassword(ctx, user.ForgotPasswordRequest{Email: "john@gmail.com"}, resetURL))
	raw := tokenFromMail(t, f.mailer.sent[0])

	f.auth.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err := f.auth.ResetPassword(ctx, raw, user.ResetPasswordRequest{Password: "newpass1"})
	assert.Equal(t, "Invalid Token", err.Error())

	_, err = f.auth.ResetPassword(ctx, "unknown", user.ResetPasswordRequest{Password: "newpass1"})
	assert.Equal(t, "Invalid Token", err.Error())
}

func TestForgotPassword_MailFailureClearsResetState(t *testing.T) {
	f := newFixture(t)
	actor := f.register(t, "John", "john@gmail.com", "")
	f.mailer.SendFn = func(ctx context.Context, msg mail.Message) error {
		return errors.New("smtp: connection refused")
	}

	err := f.auth.ForgotPassword(context.Background(), user.ForgotPasswordRequest{Email: "john@gmail.com"}, resetURL)

	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Email could not be sent"))

	tok, exp := f.store.Users().ResetState(actor.ID)
	assert.Nil(t, tok)
	assert.Nil(t, exp)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.auth.ForgotPassword(context.Background(), user.ForgotPasswordRequest{Email: "ghost@x.com"}, resetURL)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	assert.Empty(t, f.mailer.sent)
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "John", "john@gmail.com", "")

	s, err := f.auth.Login(ctx, user.LoginRequest{Email: "john@gmail.com", Password: "123456"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, s.Claims))

	revoked, err := f.denylist.IsRevoked(ctx, s.Claims.TokenID())
	require.NoError(t, err)
	assert.True(t, revoked)
}
