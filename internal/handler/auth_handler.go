package handler

import (
	"context"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ロールごとにログインURLを分ける（tokenのroleはURL側で決まる）。
func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/admin/login", h.login(h.uc.AdminLogin))
	g.POST("/owner/login", h.login(h.uc.OwnerLogin))
	g.POST("/courier/login", h.login(h.uc.CourierLogin))
	g.POST("/consumer/login", h.login(h.uc.ConsumerLogin))
	g.POST("/consumer/register", h.register)
}

func (h *AuthHandler) login(fn func(ctx context.Context, email, password string) (*usecase.LoginOutput, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
		}

		out, err := fn(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.ConsumerRegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	out, err := h.uc.ConsumerRegister(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
