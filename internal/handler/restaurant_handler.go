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

type RestaurantHandler struct {
	restaurants *usecase.RestaurantUsecase
	products    *usecase.ProductUsecase
}

func NewRestaurantHandler(restaurants *usecase.RestaurantUsecase, products *usecase.ProductUsecase) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, products: products}
}

// 公開ブラウズ（認証なし）とオーナー管理ルートを登録する。
func (h *RestaurantHandler) RegisterRoutes(e *echo.Echo, tokens *auth.TokenService) {
	e.GET("/restaurants", h.browse)
	e.GET("/restaurants/:id/menu", h.menu)
	e.GET("/restaurants/:id/delivery-estimate", h.deliveryEstimate)

	g := e.Group("/owner/restaurants")
	g.Use(middleware.AuthJWT(tokens))
	g.Use(middleware.RoleGuard(model.RoleOwner))

	g.POST("", h.create)
	g.GET("", h.listOwned)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *RestaurantHandler) browse(c echo.Context) error {
	page, limit, ok := parsePagination(c)
	if !ok {
		return nil
	}
	openOnly := c.QueryParam("open") == "true"

	rests, total, err := h.restaurants.BrowsePublic(c.Request().Context(), openOnly, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(rests, total, page, limit))
}

func (h *RestaurantHandler) menu(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}
	page, limit, ok := parsePagination(c)
	if !ok {
		return nil
	}

	products, total, err := h.products.BrowseMenu(c.Request().Context(), id, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(products, total, page, limit))
}

// ?lon=..&lat=.. の地点への配達見積もり。
func (h *RestaurantHandler) deliveryEstimate(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	lon, err1 := strconv.ParseFloat(c.QueryParam("lon"), 64)
	lat, err2 := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lon and lat are required", Code: usecase.CodeValidationError})
	}

	est, err := h.restaurants.DeliveryEstimateTo(c.Request().Context(), id, model.GeoPoint{Lon: lon, Lat: lat})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, est)
}

func (h *RestaurantHandler) create(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.RestaurantCreateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	rest, err := h.restaurants.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rest)
}

func (h *RestaurantHandler) listOwned(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	page, limit, ok := parsePagination(c)
	if !ok {
		return nil
	}

	rests, total, err := h.restaurants.ListOwned(c.Request().Context(), actor, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(rests, total, page, limit))
}

func (h *RestaurantHandler) get(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	rest, err := h.restaurants.Get(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rest)
}

func (h *RestaurantHandler) update(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	var req usecase.RestaurantUpdateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidationError})
	}

	rest, err := h.restaurants.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rest)
}

func (h *RestaurantHandler) delete(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil
	}

	if err := h.restaurants.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
