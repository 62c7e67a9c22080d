package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/services"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

// userTokenCookie is the cookie the session token is also issued
// under; the auth middleware accepts either the cookie or a bearer
// header.
const userTokenCookie = "user_token"

type AuthHandler struct {
	svc services.AuthService
	log *zap.SugaredLogger
}

func NewAuthHandler(svc services.AuthService, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	user, err := h.svc.Signup(c.Context(), req)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusCreated, "Verification is Needed!", fiber.Map{"user": user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	token, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return failWith(c, err)
	}
	h.setTokenCookie(c, token)
	return ok(c, fiber.StatusOK, "Login successful!", fiber.Map{"token": token})
}

func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req models.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	token, err := h.svc.GoogleLogin(c.Context(), req)
	if err != nil {
		return failWith(c, err)
	}
	h.setTokenCookie(c, token)
	return ok(c, fiber.StatusOK, "Login successful!", fiber.Map{"token": token})
}

// VerifyOTP consumes the pending code for the account in the path. The
// verified flag is committed before the confirmation mail goes out, so
// a mail failure never turns a verified account back into an error.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req models.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	token, _, err := h.svc.VerifyOTP(c.Context(), c.Params("userid"), req.OTP)
	if err != nil {
		return failWith(c, err)
	}
	h.setTokenCookie(c, token)
	return ok(c, fiber.StatusOK, "Login successful!", fiber.Map{"token": token})
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	if err := h.svc.ResendOTP(c.Context(), c.Params("userid")); err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "New OTP sent successfully!", nil)
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     userTokenCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Secure:   true,
	})
}
