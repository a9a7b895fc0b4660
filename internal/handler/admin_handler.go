package handler

import (
	"net/http"
	"strconv"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin 以下。オーナーアカウント・サブスク管理とクーリエ承認。
type AdminHandler struct {
	subs     *usecase.SubscriptionUsecase
	couriers *usecase.CourierUsecase
}

func NewAdminHandler(subs *usecase.SubscriptionUsecase, couriers *usecase.CourierUsecase) *AdminHandler {
	return &AdminHandler{subs: subs, couriers: couriers}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, tokens *auth.TokenService) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(tokens))
	g.Use(middleware.RoleGuard(model.RoleAdmin))

	g.POST("/owners", h.createOwner)
	g.GET("/owners", h.listOwners)
	g.GET("/owners/:id", h.getOwner)
	g.PATCH("/owners/:id", h.updateOwner)
	g.POST("/owners/:id/subscription/extend", h.extendSubscription)
	g.GET("/owners/:id/subscription", h.subscriptionStatus)

	g.GET("/reports/expired-subscriptions", h.expiredReport)
	g.GET("/reports/expiring-subscriptions", h.expiringReport)

	g.POST("/couriers/:id/verify", h.verifyCourier)
}

func (h *AdminHandler) createOwner(c echo.Context) error {
	var req usecase.OwnerCreateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	owner, err := h.subs.CreateOwner(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, owner)
}

func (h *AdminHandler) listOwners(c echo.Context) error {
	page, limit, ok := parsePagination(c)
	if !ok {
		return nil
	}

	owners, total, err := h.subs.ListOwners(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(owners, total, page, limit))
}

func (h *AdminHandler) getOwner(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	owner, err := h.subs.GetOwner(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, owner)
}

func (h *AdminHandler) updateOwner(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req usecase.OwnerUpdateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	owner, err := h.subs.UpdateOwner(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, owner)
}

type ExtendSubscriptionRequest struct {
	Days int `json:"days"`
}

func (h *AdminHandler) extendSubscription(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req ExtendSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	owner, err := h.subs.ExtendSubscription(c.Request().Context(), id, req.Days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, owner)
}

func (h *AdminHandler) subscriptionStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	status, err := h.subs.SubscriptionStatus(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *AdminHandler) expiredReport(c echo.Context) error {
	report, err := h.subs.ExpiredReport(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) expiringReport(c echo.Context) error {
	days := 7
	if v := c.QueryParam("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid days", Code: usecase.CodeValidationError})
		}
		days = d
	}

	report, err := h.subs.ExpiringSoonReport(c.Request().Context(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) verifyCourier(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	courier, err := h.couriers.Verify(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courier)
}
