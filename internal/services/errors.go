package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCategoryExists     = errors.New("category already exists")
	ErrForbidden          = errors.New("forbidden")
)
