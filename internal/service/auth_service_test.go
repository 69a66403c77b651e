package service

import (
	"context"
	"testing"
	"time"

	"lumenra-be/internal/dto"
	"lumenra-be/internal/pkg/apperror"
	"lumenra-be/internal/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceForTest() (IAuthService, *fakeUowFactory, *fakeOtpPublisher) {
	factory := newFakeUowFactory()
	publisher := &fakeOtpPublisher{}
	tokenService := token.NewService("test-secret", time.Hour)
	svc := NewAuthService(factory, tokenService, publisher, nopLogger{})
	return svc, factory, publisher
}

func registerTestUser(t *testing.T, svc IAuthService, email, password string) *dto.UserDTO {
	t.Helper()
	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestRegister_StoresSaltedHash(t *testing.T) {
	svc, factory, _ := newAuthServiceForTest()

	user := registerTestUser(t, svc, "alice@example.com", "s3cret-pass")

	stored := factory.uow.userRepo.users[user.Id]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_SamePasswordDifferentHashes(t *testing.T) {
	svc, factory, _ := newAuthServiceForTest()

	a := registerTestUser(t, svc, "a@example.com", "shared-password")
	b := registerTestUser(t, svc, "b@example.com", "shared-password")

	hashA := factory.uow.userRepo.users[a.Id].PasswordHash
	hashB := factory.uow.userRepo.users[b.Id].PasswordHash
	assert.NotEqual(t, hashA, hashB)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	registerTestUser(t, svc, "alice@example.com", "first")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Alice Again",
		Email:    "alice@example.com",
		Password: "second",
	})
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "A user with this email already exist", appErr.Message)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "alice@example.com",
	})
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "Full name, email, password are required ", appErr.Message)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, 401, appErr.StatusCode)
	assert.Equal(t, "Invalid Login details", appErr.Message)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	user := registerTestUser(t, svc, "alice@example.com", "s3cret-pass")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, user.Id, resp.User.Id)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	claims, err := token.NewService("test-secret", time.Hour).Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Id.String(), claims.Id)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, publisher := newAuthServiceForTest()

	msg, err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "If the email exists, an OTP has been sent", msg)
	assert.Empty(t, publisher.published)
}

func TestForgotPassword_StoresOtpAndPublishes(t *testing.T) {
	svc, factory, publisher := newAuthServiceForTest()
	user := registerTestUser(t, svc, "alice@example.com", "s3cret-pass")

	msg, err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "OTP sent to your email", msg)

	stored := factory.uow.userRepo.users[user.Id]
	require.NotNil(t, stored.Otp)
	require.NotNil(t, stored.OtpExpires)
	assert.Len(t, *stored.Otp, 6)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.OtpExpires, 5*time.Second)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "alice@example.com", publisher.published[0].Email)
	assert.Equal(t, *stored.Otp, publisher.published[0].Otp)
}

func TestResetPassword_Success(t *testing.T) {
	svc, factory, _ := newAuthServiceForTest()
	user := registerTestUser(t, svc, "alice@example.com", "old-pass")

	_, err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "alice@example.com"})
	require.NoError(t, err)
	code := *factory.uow.userRepo.users[user.Id].Otp

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "alice@example.com",
		Otp:         code,
		NewPassword: "new-pass",
	})
	require.NoError(t, err)

	stored := factory.uow.userRepo.users[user.Id]
	assert.Nil(t, stored.Otp)
	assert.Nil(t, stored.OtpExpires)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("old-pass")))
}

func TestResetPassword_WrongOtp(t *testing.T) {
	svc, factory, _ := newAuthServiceForTest()
	user := registerTestUser(t, svc, "alice@example.com", "old-pass")

	_, err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "alice@example.com"})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "alice@example.com",
		Otp:         "000000",
		NewPassword: "new-pass",
	})
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "Invalid or expired OTP", appErr.Message)

	// Stored code survives a failed attempt.
	stored := factory.uow.userRepo.users[user.Id]
	assert.NotNil(t, stored.Otp)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("old-pass")))
}

func TestResetPassword_ExpiredOtp(t *testing.T) {
	svc, factory, _ := newAuthServiceForTest()
	user := registerTestUser(t, svc, "alice@example.com", "old-pass")

	code := "123456"
	expired := time.Now().Add(-time.Minute)
	stored := factory.uow.userRepo.users[user.Id]
	stored.Otp = &code
	stored.OtpExpires = &expired

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "alice@example.com",
		Otp:         code,
		NewPassword: "new-pass",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", apperror.From(err).Message)
}

func TestResetPassword_NoPendingOtp(t *testing.T) {
	svc, _, _ := newAuthServiceForTest()
	registerTestUser(t, svc, "alice@example.com", "old-pass")

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "alice@example.com",
		Otp:         "123456",
		NewPassword: "new-pass",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", apperror.From(err).Message)
}

func TestResetPassword_CodeNotReusable(t *testing.T) {
	svc, factory, _ := newAuthServiceForTest()
	user := registerTestUser(t, svc, "alice@example.com", "old-pass")

	_, err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "alice@example.com"})
	require.NoError(t, err)
	code := *factory.uow.userRepo.users[user.Id].Otp

	require.NoError(t, svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "alice@example.com",
		Otp:         code,
		NewPassword: "new-pass",
	}))

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "alice@example.com",
		Otp:         code,
		NewPassword: "another-pass",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", apperror.From(err).Message)
}
