package db

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("db: empty connection url")
	ErrParseConfig        = errors.New("db: failed to parse database configuration")
	ErrConnectionFailed   = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed  = errors.New("db: healthcheck failed")
	ErrMigrate            = errors.New("db: failed to apply migrations")
)
