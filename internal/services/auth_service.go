package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/events"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/mailer"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/repository"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

const googlePlaceholderAddress = "Dummy Address, Not Provided"

type authService struct {
	users  repository.UserRepository
	mail   mailer.Mailer
	events events.Publisher
	jwt    *utils.JWTManager
	log    *zap.SugaredLogger
}

func NewAuthService(
	users repository.UserRepository,
	mail mailer.Mailer,
	publisher events.Publisher,
	jwt *utils.JWTManager,
	log *zap.SugaredLogger,
) AuthService {
	return &authService{
		users:  users,
		mail:   mail,
		events: publisher,
		jwt:    jwt,
		log:    log,
	}
}

// Signup creates or reuses the unverified account for the email and
// mails it a fresh OTP. A verified account holding the email or the
// phone number blocks the signup. The account write is not rolled back
// if the mail fails; the caller retries delivery via resend, not the
// signup.
func (s *authService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if _, err := s.users.FindVerifiedByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("signup: lookup by email", err)
	}
	if _, err := s.users.FindVerifiedByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("signup: lookup by phone", err)
	}

	otp := utils.GenerateOTP()
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, s.internal("signup: hash password", err)
	}

	// one conditional upsert: concurrent signups for the same email
	// overwrite each other's pending row instead of duplicating it
	u, err := s.users.UpsertUnverified(ctx, repository.SignupFields{
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		PasswordHash: hash,
		OTP:          otp,
	})
	if err != nil {
		return nil, s.internal("signup: upsert user", err)
	}

	s.publish(ctx, events.UserSignedUp, map[string]string{"user_id": u.ID.Hex(), "email": u.Email})

	body := fmt.Sprintf("Your OTP code is %s", otp)
	if err := s.mail.Send(ctx, "IMP: Your OTP Code", u.Email, body); err != nil {
		s.log.Warnw("signup: otp mail delivery failed", "user_id", u.ID.Hex(), "error", err)
		return nil, ErrMailDelivery
	}
	return u, nil
}

// VerifyOTP consumes the pending code in a single conditional update;
// a stale code, a wrong account id or an already-verified account all
// fail identically. Once the verified flag flips the operation cannot
// fail anymore: a lost confirmation mail is only logged.
func (s *authService) VerifyOTP(ctx context.Context, userID, otp string) (string, *models.User, error) {
	u, err := s.users.ConsumeOTP(ctx, userID, otp)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidOTP
	}
	if err != nil {
		return "", nil, s.internal("verify otp: consume", err)
	}

	s.publish(ctx, events.UserVerified, map[string]string{"user_id": u.ID.Hex()})

	body := fmt.Sprintf("Hello %s, Congratulations your account is now verified.", u.Name)
	if err := s.mail.Send(ctx, "IMP: Account Verified Successfully", u.Email, body); err != nil {
		s.log.Warnw("verify otp: confirmation mail failed", "user_id", u.ID.Hex(), "error", err)
	}

	token, err := s.jwt.Issue(u.ID.Hex())
	if err != nil {
		return "", nil, s.internal("verify otp: issue token", err)
	}
	return token, u, nil
}

// ResendOTP rotates the pending code on an unverified account. The old
// code is invalid the moment the new one is persisted, even if the
// mail then fails.
func (s *authService) ResendOTP(ctx context.Context, userID string) error {
	otp := utils.GenerateOTP()
	u, err := s.users.RotateOTP(ctx, userID, otp)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return s.internal("resend otp: rotate", err)
	}

	body := fmt.Sprintf("Your new OTP code is %s", otp)
	if err := s.mail.Send(ctx, "IMP: Your new OTP Code", u.Email, body); err != nil {
		s.log.Warnw("resend otp: mail delivery failed", "user_id", u.ID.Hex(), "error", err)
		return ErrMailDelivery
	}
	return nil
}

// Login authenticates a verified account by email and password. An
// unknown email, an unverified account and a wrong password are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindVerifiedByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", s.internal("login: lookup", err)
	}
	if !utils.CheckPassword(password, u.Password) {
		return "", ErrInvalidCredentials
	}

	if err := s.mail.Send(ctx, "IMP: You Logged In on a New Device",
		u.Email, "Just wanted to let you know that your account has been logged in on a new device."); err != nil {
		s.log.Warnw("login: notification mail failed", "user_id", u.ID.Hex(), "error", err)
	}

	token, err := s.jwt.Issue(u.ID.Hex())
	if err != nil {
		return "", s.internal("login: issue token", err)
	}
	return token, nil
}

// GoogleLogin converges the federated path onto the account record: a
// first-time email gets a verified account with placeholder
// credentials, an existing account gets the Google id attached. The
// attach forces verified=true and clears any pending OTP, collapsing a
// mid-signup password-path account into a verified one. An account
// already bound to a different Google id is rejected.
func (s *authService) GoogleLogin(ctx context.Context, req models.GoogleLoginRequest) (string, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// the random password is hashed and stored but never leaves
		// the process; the federated path is this account's way in
		hash, hashErr := utils.HashPassword(utils.RandomPassword())
		if hashErr != nil {
			return "", s.internal("google login: hash password", hashErr)
		}
		u = &models.User{
			Name:        req.Name,
			Email:       req.Email,
			GoogleID:    req.GoogleID,
			PhoneNumber: "9" + utils.RandomDigits(9),
			Address:     googlePlaceholderAddress,
			Password:    hash,
			Verified:    true,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return "", s.internal("google login: create user", err)
		}
		s.publish(ctx, events.UserSignedUp, map[string]string{"user_id": u.ID.Hex(), "email": u.Email})
		s.publish(ctx, events.UserVerified, map[string]string{"user_id": u.ID.Hex()})

		welcome := fmt.Sprintf("Dear %s,\n\nYour account has been successfully created via Google Login.", req.Name)
		if err := s.mail.Send(ctx, "Welcome to Our Service!", u.Email, welcome); err != nil {
			s.log.Warnw("google login: welcome mail failed", "user_id", u.ID.Hex(), "error", err)
		}

	case err != nil:
		return "", s.internal("google login: lookup", err)

	default:
		if u.GoogleID != "" && u.GoogleID != req.GoogleID {
			return "", ErrGoogleIDMismatch
		}
		// conditional update: a concurrent login binding a different
		// Google id makes this one miss and fail, never overwrite
		attached, err := s.users.AttachGoogleID(ctx, u.ID.Hex(), req.GoogleID)
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrGoogleIDMismatch
		}
		if err != nil {
			return "", s.internal("google login: attach google id", err)
		}
		if !u.Verified {
			s.publish(ctx, events.UserVerified, map[string]string{"user_id": u.ID.Hex()})
		}
		u = attached
	}

	login := fmt.Sprintf("Dear %s,\n\nYour account has been logged in on a new device.", u.Name)
	if err := s.mail.Send(ctx, "IMP: You Logged In on a New Device", u.Email, login); err != nil {
		s.log.Warnw("google login: notification mail failed", "user_id", u.ID.Hex(), "error", err)
	}

	token, err := s.jwt.Issue(u.ID.Hex())
	if err != nil {
		return "", s.internal("google login: issue token", err)
	}
	return token, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, s.internal("get user", err)
	}
	return u, nil
}

func (s *authService) UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	u, err := s.users.UpdateProfile(ctx, userID, repository.ProfileFields{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, s.internal("update user", err)
	}
	return u, nil
}

func (s *authService) SearchUsers(ctx context.Context, query string) ([]models.PublicUser, error) {
	found, err := s.users.Search(ctx, query)
	if err != nil {
		return nil, s.internal("search users", err)
	}
	out := make([]models.PublicUser, 0, len(found))
	for i := range found {
		out = append(out, found[i].Public())
	}
	return out, nil
}

// internal logs the underlying fault and returns the opaque sentinel;
// store and hashing details never reach the caller.
func (s *authService) internal(op string, err error) error {
	s.log.Errorw(op, "error", err)
	return ErrInternal
}

func (s *authService) publish(ctx context.Context, eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		s.log.Warnw("event publish failed", "type", eventType, "error", err)
	}
}
