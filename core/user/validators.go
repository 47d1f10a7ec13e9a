package user

import (
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"

	minPasswordLen = 8

	// a short list of passwords too common to allow; matched case-insensitively.
	commonPasswords = []string{
		"11111111", "123123123", "12345678", "123456789", "1234567890",
		"aa123456", "abc12345", "asdfghjkl", "baseball1", "basketball",
		"iloveyou1", "letmein12", "liverpool", "master123", "p@$$w0rd",
		"password", "password1", "password123", "princess1", "qwerty123",
		"qwertyuiop", "sunshine1", "superman1", "trustno1",
	}

	errPwdTooShort   = errors.Errorf("password must contain at least %d characters", minPasswordLen)
	errPwdWhitespace = errors.New("password must not contain whitespace")
	errPwdAllNumeric = errors.New("password cannot be entirely numeric")
	errPwdComplexity = errors.New("password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character")
	errPwdTooCommon  = errors.New("password is too common")
	errPwdTooSimilar = errors.New("password is too similar to personal information")
)

func init() {
	sort.Strings(commonPasswords)

	_ = core.Validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, allRolesTag, allRolesText)
}

// allRolesValidation checks that all provided roles are known.
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if RolePriority(role) == 0 {
			return false
		}
	}
	return true
}

// ValidatePassword enforces the password policy. userInputs are personal
// details (name, email) the password must not simply repeat.
func ValidatePassword(pwd string, userInputs ...string) error {
	if err := checkPassword(pwd, userInputs); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "password", Error: err.Error()})
	}
	return nil
}

func checkPassword(pwd string, userInputs []string) error {
	if len(pwd) < minPasswordLen {
		return errPwdTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial, hasNonDigit bool
	for _, r := range pwd {
		switch {
		case unicode.IsSpace(r):
			return errPwdWhitespace
		case unicode.IsUpper(r):
			hasUpper = true
			hasNonDigit = true
		case unicode.IsLower(r):
			hasLower = true
			hasNonDigit = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
			hasNonDigit = true
		}
	}
	if !hasNonDigit {
		return errPwdAllNumeric
	}
	if !(hasUpper && hasLower && hasDigit && hasSpecial) {
		return errPwdComplexity
	}

	lowered := strings.ToLower(pwd)
	if i := sort.SearchStrings(commonPasswords, lowered); i < len(commonPasswords) && commonPasswords[i] == lowered {
		return errPwdTooCommon
	}

	for _, input := range userInputs {
		input = strings.ToLower(strings.TrimSpace(input))
		if input != "" && (input == lowered || strings.Contains(lowered, input)) {
			return errPwdTooSimilar
		}
	}
	return nil
}
