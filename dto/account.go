package dto

import (
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
)

const PasswordMinLength = 6

type Registration struct {
	Name     string `json:"name"     form:"name"     validate:"max=40"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Phone    string `json:"phone"    form:"phone"    validate:"max=20"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72,password"`
}

type Credentials struct {
	Email    string `json:"email"    form:"email"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Admin       bool      `json:"admin"`
	Joined      time.Time `json:"joined"`
	Permissions []string  `json:"permissions,omitempty"`
}

func ToUserResponse(user core.User) UserResponse {
	response := UserResponse{
		ID:     user.ID,
		Name:   user.PersonName,
		Admin:  user.Admin,
		Joined: user.Joined,
	}
	if user.Email != nil {
		response.Email = user.Email.String()
	}
	return response
}

// A password needs at least one lowercase letter, one uppercase letter, one digit and one symbol.
func validatePassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, symbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
