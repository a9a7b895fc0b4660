package middleware

import (
	"net/http"
	"strings"

	"app/internal/auth"
	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに載せるActorのキー。
const CtxActorKey = "actor"

// bearerAuth用のJWT検証ミドルウェア。
// 検証に成功したらActor（ID+ロール）をcontextへ保存する。
func AuthJWT(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//検証。失敗理由は区別せず一律401
			actor, err := tokens.Verify(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxActorKey, actor)
			return next(c)
		}
	}
}

// ActorFromContext はAuthJWTが保存したActorを取り出す。
func ActorFromContext(c echo.Context) (model.Actor, bool) {
	actor, ok := c.Get(CtxActorKey).(model.Actor)
	return actor, ok
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
