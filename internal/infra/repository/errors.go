package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// postgresのunique違反(23505)か。
// orderNumber採番のリトライとemail重複のCONFLICT判定に使う。
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
