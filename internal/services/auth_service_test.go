package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/repository"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

// fakeUserRepo keeps users in memory and mirrors the conditional
// semantics of the Mongo implementation: every mutating call checks its
// precondition and the whole call runs under one lock.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) clone(u *models.User) *models.User {
	cp := *u
	return &cp
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID.Hex()] = r.clone(u)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return r.clone(u), nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return r.clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindVerifiedByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Verified {
			return r.clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindVerifiedByPhone(_ context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PhoneNumber == phone && u.Verified {
			return r.clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id.Hex()]; ok {
			out = append(out, *r.clone(u))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Search(_ context.Context, query string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			out = append(out, *r.clone(u))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpsertUnverified(_ context.Context, fields repository.SignupFields) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == fields.Email && !u.Verified {
			u.Name = fields.Name
			u.PhoneNumber = fields.PhoneNumber
			u.Address = fields.Address
			u.Password = fields.PasswordHash
			u.OTP = fields.OTP
			u.UpdatedAt = time.Now()
			return r.clone(u), nil
		}
	}
	u := &models.User{
		ID:          primitive.NewObjectID(),
		Name:        fields.Name,
		Email:       fields.Email,
		PhoneNumber: fields.PhoneNumber,
		Address:     fields.Address,
		Password:    fields.PasswordHash,
		OTP:         fields.OTP,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.users[u.ID.Hex()] = u
	return r.clone(u), nil
}

func (r *fakeUserRepo) ConsumeOTP(_ context.Context, id, otp string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Verified || u.OTP != otp {
		return nil, repository.ErrNotFound
	}
	u.Verified = true
	u.OTP = ""
	u.UpdatedAt = time.Now()
	return r.clone(u), nil
}

func (r *fakeUserRepo) RotateOTP(_ context.Context, id, otp string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Verified {
		return nil, repository.ErrNotFound
	}
	u.OTP = otp
	u.UpdatedAt = time.Now()
	return r.clone(u), nil
}

func (r *fakeUserRepo) AttachGoogleID(_ context.Context, id, googleID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || (u.GoogleID != "" && u.GoogleID != googleID) {
		return nil, repository.ErrNotFound
	}
	u.GoogleID = googleID
	u.Verified = true
	u.OTP = ""
	u.UpdatedAt = time.Now()
	return r.clone(u), nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, fields repository.ProfileFields) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if fields.Name != "" {
		u.Name = fields.Name
	}
	if fields.Email != "" {
		u.Email = fields.Email
	}
	if fields.PhoneNumber != "" {
		u.PhoneNumber = fields.PhoneNumber
	}
	if fields.Address != "" {
		u.Address = fields.Address
	}
	u.UpdatedAt = time.Now()
	return r.clone(u), nil
}

// stored returns the raw stored row, bypassing the repository contract.
func (r *fakeUserRepo) stored(id string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clone(r.users[id])
}

// fakeMailer records every send and can be flipped to fail.
type fakeMailer struct {
	mu   sync.Mutex
	fail bool
	sent []sentMail
}

type sentMail struct {
	Subject string
	To      string
	Body    string
}

func (m *fakeMailer) Send(_ context.Context, subject, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return assert.AnError
	}
	m.sent = append(m.sent, sentMail{Subject: subject, To: to, Body: body})
	return nil
}

func (m *fakeMailer) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *fakeMailer) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Body
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakePublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *fakeMailer) {
	t.Helper()
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	jwtMgr := utils.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(repo, mail, &fakePublisher{}, jwtMgr, zap.NewNop().Sugar())
	return svc, repo, mail
}

func signupReq(email, phone string) models.SignupRequest {
	return models.SignupRequest{
		Name:        "Ann Author",
		Email:       email,
		PhoneNumber: phone,
		Address:     "12 Printing House Square",
		Password:    "correct horse battery",
	}
}

// extract the OTP from the last mail body; the code is always the
// final 6-digit run.
func lastOTP(t *testing.T, mail *fakeMailer) string {
	t.Helper()
	body := mail.lastBody()
	require.GreaterOrEqual(t, len(body), 6)
	otp := body[len(body)-6:]
	require.Len(t, otp, 6)
	return otp
}

func TestSignupCreatesUnverifiedUser(t *testing.T) {
	svc, repo, mail := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	require.NotNil(t, u)

	stored := repo.stored(u.ID.Hex())
	assert.False(t, stored.Verified)
	assert.Len(t, stored.OTP, 6)
	assert.NotEqual(t, "correct horse battery", stored.Password, "password must be stored hashed")
	assert.Equal(t, 1, mail.count())
	assert.Contains(t, mail.lastBody(), stored.OTP)
}

func TestSignupRejectedForVerifiedEmail(t *testing.T) {
	svc, repo, mail := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), repo.stored(u.ID.Hex()).OTP)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupReq("ann@example.com", "1112223334"))
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	// same phone under a different email is equally blocked
	_, err = svc.Signup(ctx, signupReq("other@example.com", "9876543210"))
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	_ = mail
}

func TestSignupReusesUnverifiedRow(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	firstOTP := repo.stored(first.ID.Hex()).OTP

	second, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a repeated signup must not create a second pending account")

	// only the latest code verifies
	if secondOTP := repo.stored(second.ID.Hex()).OTP; secondOTP != firstOTP {
		_, _, err = svc.VerifyOTP(ctx, first.ID.Hex(), firstOTP)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}
	_, _, err = svc.VerifyOTP(ctx, second.ID.Hex(), repo.stored(second.ID.Hex()).OTP)
	assert.NoError(t, err)
}

func TestSignupMailFailureKeepsAccount(t *testing.T) {
	svc, repo, mail := newTestAuthService(t)
	ctx := context.Background()

	mail.setFail(true)
	_, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	assert.ErrorIs(t, err, ErrMailDelivery)

	// the pending row survived; resend recovers the flow
	u, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.False(t, u.Verified)

	mail.setFail(false)
	require.NoError(t, svc.ResendOTP(ctx, u.ID.Hex()))
	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), lastOTP(t, mail))
	assert.NoError(t, err)
}

func TestVerifyOTP(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	otp := repo.stored(u.ID.Hex()).OTP

	t.Run("wrong code", func(t *testing.T) {
		bad := "000000"
		if bad == otp {
			bad = "000001"
		}
		_, _, err := svc.VerifyOTP(ctx, u.ID.Hex(), bad)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("wrong user id", func(t *testing.T) {
		_, _, err := svc.VerifyOTP(ctx, primitive.NewObjectID().Hex(), otp)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("success issues a valid session token", func(t *testing.T) {
		token, verified, err := svc.VerifyOTP(ctx, u.ID.Hex(), otp)
		require.NoError(t, err)
		assert.True(t, verified.Verified)
		assert.Empty(t, repo.stored(u.ID.Hex()).OTP, "consumed code must be cleared")

		id, err := utils.NewJWTManager("test-secret", time.Hour).Verify(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID.Hex(), id)
	})

	t.Run("replay fails after verification", func(t *testing.T) {
		_, _, err := svc.VerifyOTP(ctx, u.ID.Hex(), otp)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})
}

func TestVerifyOTPMailFailureStillVerifies(t *testing.T) {
	svc, repo, mail := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)

	mail.setFail(true)
	token, _, err := svc.VerifyOTP(ctx, u.ID.Hex(), repo.stored(u.ID.Hex()).OTP)
	require.NoError(t, err, "a lost confirmation mail must not fail the verification")
	assert.NotEmpty(t, token)
	assert.True(t, repo.stored(u.ID.Hex()).Verified)
}

func TestResendOTPInvalidatesOldCode(t *testing.T) {
	svc, repo, mail := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	oldOTP := repo.stored(u.ID.Hex()).OTP

	require.NoError(t, svc.ResendOTP(ctx, u.ID.Hex()))
	newOTP := repo.stored(u.ID.Hex()).OTP
	assert.Contains(t, mail.lastBody(), newOTP)

	if oldOTP != newOTP {
		_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), oldOTP)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}
	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), newOTP)
	assert.NoError(t, err)
}

func TestResendOTPRejectsVerifiedAndUnknown(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), repo.stored(u.ID.Hex()).OTP)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResendOTP(ctx, u.ID.Hex()), ErrUserNotFound)
	assert.ErrorIs(t, svc.ResendOTP(ctx, primitive.NewObjectID().Hex()), ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)

	t.Run("unverified account cannot log in", func(t *testing.T) {
		_, err := svc.Login(ctx, "ann@example.com", "correct horse battery")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), repo.stored(u.ID.Hex()).OTP)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ann@example.com", "wrong password!!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "correct horse battery")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success", func(t *testing.T) {
		token, err := svc.Login(ctx, "ann@example.com", "correct horse battery")
		require.NoError(t, err)
		id, err := utils.NewJWTManager("test-secret", time.Hour).Verify(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID.Hex(), id)
	})
}

func TestLoginMailFailureDoesNotBlock(t *testing.T) {
	svc, repo, mail := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), repo.stored(u.ID.Hex()).OTP)
	require.NoError(t, err)

	mail.setFail(true)
	token, err := svc.Login(ctx, "ann@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func googleReq(email, googleID string) models.GoogleLoginRequest {
	return models.GoogleLoginRequest{
		Name:     "Ann Author",
		Email:    email,
		GoogleID: googleID,
	}
}

func TestGoogleLoginNewAccount(t *testing.T) {
	svc, repo, mail := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.GoogleLogin(ctx, googleReq("ann@example.com", "103456789012345678901"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	u, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, u.Verified, "federated accounts are verified immediately")
	assert.Equal(t, "103456789012345678901", u.GoogleID)
	assert.Len(t, u.PhoneNumber, 10)
	assert.NotEmpty(t, u.Password)

	// the generated password never appears in any outgoing mail
	mail.mu.Lock()
	defer mail.mu.Unlock()
	for _, m := range mail.sent {
		assert.NotContains(t, m.Body, u.Password)
	}
}

func TestGoogleLoginAttachesToPendingSignup(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	oldOTP := repo.stored(u.ID.Hex()).OTP

	_, err = svc.GoogleLogin(ctx, googleReq("ann@example.com", "103456789012345678901"))
	require.NoError(t, err)

	stored := repo.stored(u.ID.Hex())
	assert.True(t, stored.Verified, "federated login collapses a mid-signup account into a verified one")
	assert.Empty(t, stored.OTP)

	// the pending code is dead once the account is verified
	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), oldOTP)
	assert.ErrorIs(t, err, ErrInvalidOTP)

	// the original password still works
	_, err = svc.Login(ctx, "ann@example.com", "correct horse battery")
	assert.NoError(t, err)
}

func TestGoogleLoginRejectsMismatchedID(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.GoogleLogin(ctx, googleReq("ann@example.com", "103456789012345678901"))
	require.NoError(t, err)

	_, err = svc.GoogleLogin(ctx, googleReq("ann@example.com", "999999999999999999999"))
	assert.ErrorIs(t, err, ErrGoogleIDMismatch)

	// the stored binding is untouched
	u, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "103456789012345678901", u.GoogleID)
}

func TestGoogleLoginRepeatSameID(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.GoogleLogin(ctx, googleReq("ann@example.com", "103456789012345678901"))
	require.NoError(t, err)

	token, err := svc.GoogleLogin(ctx, googleReq("ann@example.com", "103456789012345678901"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestUpdateUserAndSearch(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupReq("ann@example.com", "9876543210"))
	require.NoError(t, err)
	_, _, err = svc.VerifyOTP(ctx, u.ID.Hex(), repo.stored(u.ID.Hex()).OTP)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, u.ID.Hex(), models.UpdateUserRequest{Name: "Ann B Author"})
	require.NoError(t, err)
	assert.Equal(t, "Ann B Author", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email, "untouched fields keep their values")

	found, err := svc.SearchUsers(ctx, "ann b")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].ID)

	_, err = svc.UpdateUser(ctx, primitive.NewObjectID().Hex(), models.UpdateUserRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
