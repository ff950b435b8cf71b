package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAuthorityNotFound  = errors.New("authority not found")
	ErrUsernameTaken      = errors.New("username already used")
	ErrAuthorityNameTaken = errors.New("authority name already used")
	ErrAuthorityPresent   = errors.New("user already has authority")
	ErrAuthorityAbsent    = errors.New("user does not have authority")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidClient      = errors.New("invalid client credentials")
	ErrUnsupportedGrant   = errors.New("unsupported grant type")
)
