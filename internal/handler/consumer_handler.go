package handler

import (
	"net/http"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// コンシューマ自身のプロフィールとお気に入り。
type ConsumerHandler struct {
	uc *usecase.ConsumerUsecase
}

func NewConsumerHandler(uc *usecase.ConsumerUsecase) *ConsumerHandler {
	return &ConsumerHandler{uc: uc}
}

func (h *ConsumerHandler) RegisterRoutes(e *echo.Echo, tokens *auth.TokenService) {
	g := e.Group("/consumer")
	g.Use(middleware.AuthJWT(tokens))
	g.Use(middleware.RoleGuard(model.RoleConsumer))

	g.GET("/me", h.profile)
	g.PATCH("/me", h.updateProfile)
	g.POST("/me/favorites/:restaurantId", h.addFavorite)
	g.DELETE("/me/favorites/:restaurantId", h.removeFavorite)
}

func (h *ConsumerHandler) profile(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Profile(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ConsumerHandler) updateProfile(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.ConsumerUpdateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ConsumerHandler) addFavorite(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	restaurantID, ok := parseIDParam(c, "restaurantId")
	if !ok {
		return nil
	}

	out, err := h.uc.AddFavorite(c.Request().Context(), actor, restaurantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ConsumerHandler) removeFavorite(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	restaurantID, ok := parseIDParam(c, "restaurantId")
	if !ok {
		return nil
	}

	out, err := h.uc.RemoveFavorite(c.Request().Context(), actor, restaurantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
