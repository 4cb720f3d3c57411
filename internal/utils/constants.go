package utils

import "time"

// Application Constants
const (
	AppName    = "CargoLink"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8

	// Chat
	MaxMessageLength = 1000

	// Staff
	MinContactLength = 7

	// Invoice numbers: "INV-" + 8 uppercase hex characters
	InvoiceNumberPrefix    = "INV-"
	InvoiceNumberHexLength = 8

	// File upload
	MaxImageSize = 5 * 1024 * 1024 // 5MB
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrAccountDisabled    = "user account is disabled"
	ErrUserExists         = "user already exists"
	ErrInvalidToken       = "invalid token"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
)

// Cache Keys
const (
	CacheUserPrefix = "user:"
)

// Allowed package image types
var AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}
