package validation

import "strings"

type RegisterInput struct {
	Name      string `json:"name" validate:"required,min=2,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=30"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var registerMessages = messages{
	"name": {
		"required": "Name field is required",
		"":         "Name must be between 2 and 30 characters",
	},
	"email": {
		"required": "Email field is required",
		"email":    "Email is invalid",
	},
	"password": {
		"required": "Password field is required",
		"":         "Password must be between 6 and 30 characters",
	},
	"password2": {
		"required": "Confirm password field is required",
		"eqfield":  "Passwords must match",
	},
}

var loginMessages = messages{
	"email": {
		"required": "Email field is required",
		"email":    "Email is invalid",
	},
	"password": {"required": "Password field is required"},
}

// ValidateRegisterInput trims name and email; passwords are checked as sent.
func ValidateRegisterInput(in *RegisterInput) (Errors, bool) {
	trim(&in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return run(in, registerMessages)
}

func ValidateLoginInput(in *LoginInput) (Errors, bool) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return run(in, loginMessages)
}
