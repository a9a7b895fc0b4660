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

// オーナーによるクーリエ管理と、クーリエ自身のルート。
type CourierHandler struct {
	uc *usecase.CourierUsecase
}

func NewCourierHandler(uc *usecase.CourierUsecase) *CourierHandler {
	return &CourierHandler{uc: uc}
}

func (h *CourierHandler) RegisterRoutes(e *echo.Echo, tokens *auth.TokenService) {
	og := e.Group("/owner")
	og.Use(middleware.AuthJWT(tokens))
	og.Use(middleware.RoleGuard(model.RoleOwner))

	og.POST("/couriers", h.create)
	og.GET("/restaurants/:id/couriers", h.listByRestaurant)
	og.GET("/couriers/:id", h.get)
	og.PATCH("/couriers/:id", h.update)
	og.DELETE("/couriers/:id", h.delete)

	cg := e.Group("/courier")
	cg.Use(middleware.AuthJWT(tokens))
	cg.Use(middleware.RoleGuard(model.RoleCourier))

	cg.GET("/me", h.selfGet)
	cg.PATCH("/me/status", h.selfUpdateStatus)
	cg.PATCH("/me/location", h.selfUpdateLocation)
	cg.GET("/me/delivery-estimate", h.selfEstimate)
}

func (h *CourierHandler) create(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CourierCreateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	courier, err := h.uc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, courier)
}

func (h *CourierHandler) listByRestaurant(c echo.Context) error {
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

	couriers, total, err := h.uc.ListByRestaurant(c.Request().Context(), actor, restaurantID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(couriers, total, page, limit))
}

func (h *CourierHandler) get(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	courier, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courier)
}

func (h *CourierHandler) update(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req usecase.CourierUpdateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	courier, err := h.uc.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courier)
}

func (h *CourierHandler) delete(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CourierHandler) selfGet(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	courier, err := h.uc.SelfGet(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courier)
}

type CourierStatusRequest struct {
	Status model.CourierStatus `json:"status"`
}

func (h *CourierHandler) selfUpdateStatus(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CourierStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	courier, err := h.uc.SelfUpdateStatus(c.Request().Context(), actor, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courier)
}

func (h *CourierHandler) selfUpdateLocation(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req model.GeoPoint
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	courier, err := h.uc.SelfUpdateLocation(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courier)
}

func (h *CourierHandler) selfEstimate(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	lon, err1 := strconv.ParseFloat(c.QueryParam("lon"), 64)
	lat, err2 := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lon and lat are required", Code: usecase.CodeValidationError})
	}

	est, err := h.uc.EstimateTo(c.Request().Context(), actor, model.GeoPoint{Lon: lon, Lat: lat})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, est)
}
