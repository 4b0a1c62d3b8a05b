package auth

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"group-chat/domain"
	"group-chat/errors"
)

var validate = validator.New()

// mobilePattern matches the Indian mobile numbers the backend accepts:
// 10 digits, first one in 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// DefaultRole is assigned to sign-ups that do not pick a role explicitly.
const DefaultRole = "user"

type SignInRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type SignUpRequest struct {
	FirstName    string `validate:"required"`
	LastName     string `validate:"required"`
	MobileNumber string `validate:"required"`
	Email        string `validate:"required,email"`
	Password     string `validate:"required,min=6"`
	Role         string
}

type CreateGroupRequest struct {
	Name      string
	MemberIDs []domain.UserID
	CreatedBy string `validate:"required,email"`
	Role      string
}

// ValidateSignIn checks both credentials are present before any network call.
func ValidateSignIn(req SignInRequest) error {
	return validate.Struct(req)
}

func ValidateSignUp(req SignUpRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if !mobilePattern.MatchString(req.MobileNumber) {
		return errors.ErrInvalidMobile
	}
	return nil
}

// ValidateCreateGroup rejects a blank group name. Member selection may be
// empty: the creator is always added to the submitted set by the screen.
func ValidateCreateGroup(req CreateGroupRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.ErrEmptyGroupName
	}
	return validate.Struct(req)
}
