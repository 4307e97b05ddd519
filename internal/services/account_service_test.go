package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/benhaham/findscooter/internal/auth"
	"github.com/benhaham/findscooter/internal/models"
	"github.com/benhaham/findscooter/pkg/crypto"
	apperrors "github.com/benhaham/findscooter/pkg/errors"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Scooter{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func newAccountService(t *testing.T, db *gorm.DB, opts ...AccountOption) *AccountService {
	t.Helper()

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "findscooter",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	svc, err := NewAccountService(db, jwtSvc, nil, opts...)
	require.NoError(t, err)
	return svc
}

func TestSignupCreatesUnverifiedAccount(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben",
		LastName:  "Haham",
		Email:     "b@x.com",
		Password:  "pw",
	})
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.False(t, account.IsVerified)

	require.NotNil(t, account.VerificationCode)
	require.GreaterOrEqual(t, *account.VerificationCode, 1000)
	require.LessOrEqual(t, *account.VerificationCode, 9999)

	require.NotEqual(t, "pw", account.Password)
	require.True(t, crypto.VerifyPassword(account.Password, "pw"))
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	input := SignupInput{FirstName: "Ben", LastName: "Haham", Email: "b@x.com", Password: "pw"}
	_, err := svc.Signup(ctx, input)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, input)
	require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	var count int64
	require.NoError(t, db.Model(&models.Account{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSignupRejectsMissingFields(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	cases := []SignupInput{
		{LastName: "Haham", Email: "b@x.com", Password: "pw"},
		{FirstName: "Ben", Email: "b@x.com", Password: "pw"},
		{FirstName: "Ben", LastName: "Haham", Password: "pw"},
		{FirstName: "Ben", LastName: "Haham", Email: "b@x.com"},
	}

	for _, input := range cases {
		_, err := svc.Signup(ctx, input)
		require.Error(t, err)
	}
}

func TestVerifyFlipsAccountAndConsumesCode(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "b@x.com", Password: "pw",
	})
	require.NoError(t, err)
	code := *account.VerificationCode

	// Wrong code leaves the account untouched.
	err = svc.Verify(ctx, "b@x.com", code+1)
	require.ErrorIs(t, err, apperrors.ErrCodeMismatch)

	reloaded, err := svc.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsVerified)

	// Correct code verifies and clears the stored code.
	require.NoError(t, svc.Verify(ctx, "b@x.com", code))

	reloaded, err = svc.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsVerified)
	require.Nil(t, reloaded.VerificationCode)

	// The code is single-use.
	err = svc.Verify(ctx, "b@x.com", code)
	require.ErrorIs(t, err, apperrors.ErrCodeMismatch)
}

func TestVerifyUnknownEmail(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)

	err := svc.Verify(context.Background(), "nobody@x.com", 1234)
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestVerifyExpiredCode(t *testing.T) {
	db := openServiceTestDB(t)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newAccountService(t, db,
		WithCodeTTL(time.Hour),
		WithClock(func() time.Time { return current }),
	)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "b@x.com", Password: "pw",
	})
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)

	err = svc.Verify(ctx, "b@x.com", *account.VerificationCode)
	require.ErrorIs(t, err, apperrors.ErrCodeExpired)
}

func TestLoginOrdering(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "b@x.com", Password: "pw",
	})
	require.NoError(t, err)

	// Unknown account comes first.
	_, _, err = svc.Login(ctx, "nobody@x.com", "pw")
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	// An unverified account fails before the password is ever checked.
	_, _, err = svc.Login(ctx, "b@x.com", "pw")
	require.ErrorIs(t, err, apperrors.ErrNotVerified)
	_, _, err = svc.Login(ctx, "b@x.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrNotVerified)

	require.NoError(t, svc.Verify(ctx, "b@x.com", *account.VerificationCode))

	_, _, err = svc.Login(ctx, "b@x.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	token, logged, err := svc.Login(ctx, "b@x.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, account.ID, logged.ID)
}

func TestLoginTokenCarriesIdentityClaims(t *testing.T) {
	db := openServiceTestDB(t)

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "findscooter",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	svc, err := NewAccountService(db, jwtSvc, nil)
	require.NoError(t, err)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "b@x.com", Password: "pw",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Verify(ctx, "b@x.com", *account.VerificationCode))

	token, _, err := svc.Login(ctx, "b@x.com", "pw")
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.AccountID)
	require.Equal(t, "Ben", claims.FirstName)
	require.Equal(t, "Haham", claims.LastName)
	require.Equal(t, "b@x.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
}

func TestUpdateMutatesNamesOnly(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "b@x.com", Password: "pw",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, account.ID, UpdateAccountInput{
		FirstName: "Benny",
		LastName:  "H",
	})
	require.NoError(t, err)
	require.Equal(t, "Benny", updated.FirstName)
	require.Equal(t, "H", updated.LastName)
	require.Equal(t, "b@x.com", updated.Email)
	require.Equal(t, account.Password, updated.Password)
	require.False(t, updated.IsVerified)

	_, err = svc.Update(ctx, "missing-id", UpdateAccountInput{FirstName: "X", LastName: "Y"})
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestDeleteReturnsPriorStateAndNotFound(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "b@x.com", Password: "pw",
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, account.ID, deleted.ID)
	require.Equal(t, "b@x.com", deleted.Email)

	_, err = svc.GetByID(ctx, account.ID)
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	// Deleting a nonexistent id is a typed failure, not a fault.
	_, err = svc.Delete(ctx, account.ID)
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestListReturnsAllAccounts(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := svc.Signup(ctx, SignupInput{
			FirstName: "Ben", LastName: "Haham", Email: email, Password: "pw",
		})
		require.NoError(t, err)
	}

	accounts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
}

func TestClearExpiredCodes(t *testing.T) {
	db := openServiceTestDB(t)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newAccountService(t, db,
		WithCodeTTL(time.Hour),
		WithClock(func() time.Time { return current }),
	)
	ctx := context.Background()

	stale, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "stale@x.com", Password: "pw",
	})
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)

	fresh, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "fresh@x.com", Password: "pw",
	})
	require.NoError(t, err)

	cleared, err := svc.ClearExpiredCodes(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, cleared)

	reloaded, err := svc.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.VerificationCode)

	reloaded, err = svc.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.VerificationCode)
}

func TestSignupNormalizesEmail(t *testing.T) {
	db := openServiceTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	account, err := svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "  Ben@X.Com ", Password: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "ben@x.com", account.Email)

	_, err = svc.Signup(ctx, SignupInput{
		FirstName: "Ben", LastName: "Haham", Email: "ben@x.com", Password: "pw",
	})
	require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}
