package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// MemberStore is the account surface the member handler needs.
type MemberStore interface {
	Create(ctx context.Context, email, name, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// verifyFunc compares a bcrypt hash against a plain password.
type verifyFunc func(hash, plain string) bool

// MemberHandler registers member accounts and hands out the numeric
// access id members use on the booking endpoints.  Guests never touch
// this surface; their access id is the token minted at checkout.
type MemberHandler struct {
	Users      MemberStore
	Verify     verifyFunc
	BcryptCost int
}

func NewMemberHandler(users MemberStore, verify verifyFunc, bcryptCost int) *MemberHandler {
	return &MemberHandler{Users: users, Verify: verify, BcryptCost: bcryptCost}
}

type memberCredentials struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register handles POST /v1/members.
func (h *MemberHandler) Register(c echo.Context) error {
	var body memberCredentials
	if err := c.Bind(&body); err != nil {
		return writeError(c, service.E(service.KindValidation, "malformed request body"))
	}
	switch {
	case strings.TrimSpace(body.Email) == "" || !strings.Contains(body.Email, "@"):
		return writeError(c, service.E(service.KindValidation, "email is invalid"))
	case strings.TrimSpace(body.Name) == "":
		return writeError(c, service.E(service.KindValidation, "name is required"))
	case len(body.Password) < 8:
		return writeError(c, service.E(service.KindValidation, "password must be at least 8 characters"))
	}

	id, err := h.Users.Create(c.Request().Context(), body.Email, body.Name, body.Password, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return writeError(c, service.E(service.KindConflict, "email already registered"))
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"access_id": strconv.FormatUint(id, 10)})
}

// Login handles POST /v1/members/login.  It returns the member's access
// id after verifying the password, so clients never have to store it.
func (h *MemberHandler) Login(c echo.Context) error {
	var body memberCredentials
	if err := c.Bind(&body); err != nil {
		return writeError(c, service.E(service.KindValidation, "malformed request body"))
	}
	u, err := h.Users.GetByEmail(c.Request().Context(), body.Email)
	if err != nil || !h.Verify(u.PasswordHash, body.Password) {
		return writeError(c, service.E(service.KindInvalidAccess, "invalid email or password"))
	}
	return c.JSON(http.StatusOK, echo.Map{"access_id": strconv.FormatUint(u.ID, 10)})
}
