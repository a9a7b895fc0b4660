package auth

import (
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// HS256のアクセストークン発行・検証。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SetTimeFunc は有効期限の判定に使う現在時刻を差し替える（テスト用）。
func (s *TokenService) SetTimeFunc(fn func() time.Time) {
	s.now = fn
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// subにアカウントID、roleにアカウント種別を入れて署名する。
func (s *TokenService) Issue(subjectID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// 検証してActorを返す。失敗理由は区別しない。
// 期限判定はライブラリのグローバル時計ではなくs.nowで行う。
func (s *TokenService) Verify(raw string) (model.Actor, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return model.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Actor{}, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok || s.now().Unix() >= int64(exp) {
		return model.Actor{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return model.Actor{}, ErrInvalidToken
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return model.Actor{}, ErrInvalidToken
	}
	role := model.Role(roleStr)
	switch role {
	case model.RoleAdmin, model.RoleOwner, model.RoleCourier, model.RoleConsumer:
	default:
		return model.Actor{}, ErrInvalidToken
	}

	return model.Actor{ID: int64(sub), Role: role}, nil
}
