// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taxiunn/interactions/internal/models"
	"github.com/taxiunn/interactions/internal/repository"
	"github.com/taxiunn/interactions/internal/services/auth"
	"github.com/taxiunn/interactions/internal/testutil"
	"github.com/taxiunn/interactions/internal/token"
	"github.com/taxiunn/interactions/internal/verification"
)

// fakeMailer records sent codes instead of talking SMTP.
type fakeMailer struct {
	codes map[string]string
	fail  bool
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, to, code string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	if f.codes == nil {
		f.codes = make(map[string]string)
	}
	f.codes[to] = code
	return nil
}

func newService(t *testing.T) (*auth.Service, *repository.Repository, *fakeMailer) {
	t.Helper()

	_, repo := testutil.NewTestDB(t)
	tokens, err := token.NewManager("test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	mailer := &fakeMailer{}
	svc := auth.NewService(repo, verification.NewMemoryCache(), tokens, mailer)
	return svc, repo, mailer
}

func TestStartRegistration(t *testing.T) {
	svc, repo, mailer := newService(t)
	ctx := context.Background()

	err := svc.StartRegistration(ctx, auth.RegisterParams{
		Email:    "a@b.com",
		Password: "12345678",
		Role:     models.RoleAdmin,
	})

	require.NoError(t, err)
	assert.Len(t, mailer.codes["a@b.com"], 5)

	// Nothing is persisted until the code is confirmed.
	exists, err := repo.EmployeeEmailExists(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStartRegistration_EmailExists(t *testing.T) {
	svc, repo, _ := newService(t)

	testutil.NewTestEmployee(t, repo, "a@b.com", "password", models.RoleWorker)

	err := svc.StartRegistration(context.Background(), auth.RegisterParams{
		Email:    "a@b.com",
		Password: "12345678",
		Role:     models.RoleWorker,
	})

	assert.ErrorIs(t, err, auth.ErrEmailExists)
}

func TestStartRegistration_InvalidRole(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.StartRegistration(context.Background(), auth.RegisterParams{
		Email:    "a@b.com",
		Password: "12345678",
		Role:     "manager",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidRole)
}

func TestStartRegistration_MailFailure(t *testing.T) {
	svc, _, mailer := newService(t)
	mailer.fail = true

	err := svc.StartRegistration(context.Background(), auth.RegisterParams{
		Email:    "a@b.com",
		Password: "12345678",
		Role:     models.RoleWorker,
	})

	assert.ErrorIs(t, err, auth.ErrMailDelivery)
}

func TestCompleteRegistration(t *testing.T) {
	svc, repo, mailer := newService(t)
	ctx := context.Background()

	name := "Jordan Doe"
	require.NoError(t, svc.StartRegistration(ctx, auth.RegisterParams{
		Email:    "a@b.com",
		Password: "12345678",
		Role:     models.RoleAdmin,
		FullName: &name,
	}))

	employee, err := svc.CompleteRegistration(ctx, "a@b.com", mailer.codes["a@b.com"])

	require.NoError(t, err)
	assert.NotZero(t, employee.ID)
	assert.Equal(t, models.RoleAdmin, employee.Role)
	require.NotNil(t, employee.FullName)
	assert.Equal(t, "Jordan Doe", *employee.FullName)

	stored, err := repo.GetEmployeeByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("12345678")))
}

func TestCompleteRegistration_WrongCode(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.StartRegistration(ctx, auth.RegisterParams{
		Email:    "a@b.com",
		Password: "12345678",
		Role:     models.RoleWorker,
	}))

	_, err := svc.CompleteRegistration(ctx, "a@b.com", "00000")

	assert.ErrorIs(t, err, auth.ErrCodeMismatch)

	exists, err := repo.EmployeeEmailExists(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCompleteRegistration_CodeSingleUse(t *testing.T) {
	svc, _, mailer := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.StartRegistration(ctx, auth.RegisterParams{
		Email:    "a@b.com",
		Password: "12345678",
		Role:     models.RoleWorker,
	}))
	code := mailer.codes["a@b.com"]

	_, err := svc.CompleteRegistration(ctx, "a@b.com", code)
	require.NoError(t, err)

	_, err = svc.CompleteRegistration(ctx, "a@b.com", code)

	assert.ErrorIs(t, err, auth.ErrCodeMismatch)
}

func TestEnsureAdmin(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@b.com", "12345678"))

	count, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A second call is a no-op once an admin exists.
	require.NoError(t, svc.EnsureAdmin(ctx, "other@b.com", "12345678"))

	count, err = repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	svc, repo, _ := newService(t)

	testutil.NewTestEmployee(t, repo, "a@b.com", "12345678", models.RoleWorker)

	pair, err := svc.Login(context.Background(), "a@b.com", "12345678")

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Login(context.Background(), "nobody@b.com", "12345678")

	assert.ErrorIs(t, err, auth.ErrEmailNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, _ := newService(t)

	testutil.NewTestEmployee(t, repo, "a@b.com", "12345678", models.RoleWorker)

	_, err := svc.Login(context.Background(), "a@b.com", "wrong-password")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	testutil.NewTestEmployee(t, repo, "a@b.com", "12345678", models.RoleWorker)

	pair, err := svc.Login(ctx, "a@b.com", "12345678")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.Refresh)

	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	testutil.NewTestEmployee(t, repo, "a@b.com", "12345678", models.RoleWorker)

	pair, err := svc.Login(ctx, "a@b.com", "12345678")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.Access)

	assert.Error(t, err)
}

func TestStartRecovery_UnknownEmail(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.StartRecovery(context.Background(), "nobody@b.com")

	assert.ErrorIs(t, err, auth.ErrEmailNotFound)
}

func TestRecoveryFlow(t *testing.T) {
	svc, repo, mailer := newService(t)
	ctx := context.Background()

	testutil.NewTestEmployee(t, repo, "a@b.com", "old-password", models.RoleWorker)

	require.NoError(t, svc.StartRecovery(ctx, "a@b.com"))
	require.NoError(t, svc.VerifyRecovery(ctx, "a@b.com", mailer.codes["a@b.com"]))
	require.NoError(t, svc.ChangePassword(ctx, "a@b.com", "new-password"))

	_, err := svc.Login(ctx, "a@b.com", "new-password")
	assert.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "old-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerifyRecovery_WrongCode(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	testutil.NewTestEmployee(t, repo, "a@b.com", "12345678", models.RoleWorker)

	require.NoError(t, svc.StartRecovery(ctx, "a@b.com"))

	err := svc.VerifyRecovery(ctx, "a@b.com", "00000")

	assert.ErrorIs(t, err, auth.ErrCodeMismatch)
}

func TestChangePassword_WithoutApproval(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	testutil.NewTestEmployee(t, repo, "a@b.com", "12345678", models.RoleWorker)

	err := svc.ChangePassword(ctx, "a@b.com", "new-password")

	assert.ErrorIs(t, err, auth.ErrNotApproved)
}

func TestChangePassword_ApprovalConsumed(t *testing.T) {
	svc, repo, mailer := newService(t)
	ctx := context.Background()

	testutil.NewTestEmployee(t, repo, "a@b.com", "old-password", models.RoleWorker)

	require.NoError(t, svc.StartRecovery(ctx, "a@b.com"))
	require.NoError(t, svc.VerifyRecovery(ctx, "a@b.com", mailer.codes["a@b.com"]))
	require.NoError(t, svc.ChangePassword(ctx, "a@b.com", "new-password"))

	err := svc.ChangePassword(ctx, "a@b.com", "another-password")

	assert.ErrorIs(t, err, auth.ErrNotApproved)
}
