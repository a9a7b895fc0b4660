package handler

import (
	"net/http"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, tokens *auth.TokenService) {
	// コンシューマ
	cg := e.Group("/orders")
	cg.Use(middleware.AuthJWT(tokens))
	cg.Use(middleware.RoleGuard(model.RoleConsumer))

	cg.POST("", h.create)
	cg.GET("", h.listMine)
	cg.GET("/:id", h.detail)
	cg.POST("/:id/rate", h.rate)

	// オーナー
	og := e.Group("/owner")
	og.Use(middleware.AuthJWT(tokens))
	og.Use(middleware.RoleGuard(model.RoleOwner))

	og.GET("/restaurants/:id/orders", h.listForRestaurant)
	og.POST("/orders/:id/confirm", h.confirm)
	og.PATCH("/orders/:id/status", h.updateStatus)
	og.POST("/orders/:id/assign-courier", h.assignCourier)
	og.GET("/orders/:id", h.detail)

	// クーリエ
	kg := e.Group("/courier")
	kg.Use(middleware.AuthJWT(tokens))
	kg.Use(middleware.RoleGuard(model.RoleCourier))

	kg.GET("/orders", h.listForCourier)
	kg.GET("/orders/:id", h.detail)
	kg.PATCH("/orders/:id/status", h.courierUpdateStatus)
}

func (h *OrderHandler) create(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.OrderCreateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	req.IdempotencyKey = c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.uc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	page, limit, ok := parsePagination(c)
	if !ok {
		return nil
	}

	orders, total, err := h.uc.ListForConsumer(c.Request().Context(), actor, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(orders, total, page, limit))
}

func (h *OrderHandler) detail(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	out, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type RateOrderRequest struct {
	Score  int    `json:"score"`
	Review string `json:"review"`
}

func (h *OrderHandler) rate(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req RateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	out, err := h.uc.Rate(c.Request().Context(), actor, id, req.Score, req.Review)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listForRestaurant(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}
	page, limit, ok := parsePagination(c)
	if !ok {
		return nil
	}

	orders, total, err := h.uc.ListForRestaurant(c.Request().Context(), actor, restaurantID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(orders, total, page, limit))
}

type ConfirmOrderRequest struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason"`
}

func (h *OrderHandler) confirm(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req ConfirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	out, err := h.uc.Confirm(c.Request().Context(), actor, id, req.Accept, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
	Reason string            `json:"reason"`
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), actor, id, req.Status, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type AssignCourierRequest struct {
	CourierID int64 `json:"courier_id"`
}

func (h *OrderHandler) assignCourier(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req AssignCourierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	out, err := h.uc.AssignCourier(c.Request().Context(), actor, id, req.CourierID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listForCourier(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	page, limit, ok := parsePagination(c)
	if !ok {
		return nil
	}

	orders, total, err := h.uc.ListForCourier(c.Request().Context(), actor, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(orders, total, page, limit))
}

func (h *OrderHandler) courierUpdateStatus(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	out, err := h.uc.CourierUpdateStatus(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
