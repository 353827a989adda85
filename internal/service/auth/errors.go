package auth

import "errors"

const (
	MsgCredentialsRequired = "SRCODE and password are required"
	MsgIncorrectLogin      = "Incorrect SRCODE or password. Please signup if you don't have an account."
)

var (
	ErrTokenGenerateFail = errors.New("failed to generate token")
	ErrUnexpected        = errors.New("unexpected error")
	ErrExpToken          = errors.New("expired token")
)
