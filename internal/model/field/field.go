// Package field holds the validated value types carried by User records.
// Each type decodes from a bare JSON string and refuses malformed literals
// with a user-showable validation error, so a request body with a bad email
// or zip code fails at decode time, before anything touches the store.
package field

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/noteskit/noteskit/internal/apperror"
)

var (
	nameRe        = regexp.MustCompile(`^[A-Za-z\s-]{2,}$`)
	userNameRe    = regexp.MustCompile(`^[a-zA-Z0-9_]{4,16}$`)
	phoneRe       = regexp.MustCompile(`^[0-9]{5,15}$`)
	zipRe         = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	countryCodeRe = regexp.MustCompile(`^[0-9]{1,3}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	for tag, re := range map[string]*regexp.Regexp{
		"person_name":  nameRe,
		"user_name":    userNameRe,
		"phone_number": phoneRe,
		"zip_code":     zipRe,
		"dialing_code": countryCodeRe,
	} {
		re := re
		must(v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}))
	}
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidationError reports a malformed field literal. It implements
// apperror.Showable: the reason is safe to display verbatim.
type ValidationError struct {
	identifier string
	reason     string
}

var _ apperror.Showable = (*ValidationError)(nil)

func (e *ValidationError) Error() string      { return e.reason }
func (e *ValidationError) Identifier() string { return e.identifier }
func (e *ValidationError) Reason() string     { return e.reason }
func (e *ValidationError) UserShowable() bool { return true }
func (e *ValidationError) Unwrap() error      { return apperror.ErrValidation }

func invalid(identifier, reason string) error {
	return &ValidationError{identifier: identifier, reason: reason}
}

func decodeString(b []byte, field string) (string, error) {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", invalid("Invalid"+field, fmt.Sprintf("The %s must be a string.", field))
	}
	return s, nil
}

// Email is a syntactically valid email address.
type Email string

// ParseEmail validates s as an email address.
func ParseEmail(s string) (Email, error) {
	if err := validate.Var(s, "required,email"); err != nil {
		return "", invalid("InvalidEmail", "The Email Format is Invalid. Please provide a proper email as per standards.")
	}
	return Email(s), nil
}

func (e Email) String() string { return string(e) }

func (e *Email) UnmarshalJSON(b []byte) error {
	s, err := decodeString(b, "Email")
	if err != nil {
		return err
	}
	parsed, err := ParseEmail(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Name is a person name: letters, spaces and hyphens, two characters up.
type Name string

// ParseName validates s as a name.
func ParseName(s string) (Name, error) {
	if err := validate.Var(s, "person_name"); err != nil {
		return "", invalid("InvalidName", "The Name Format is Invalid. Please provide a name with at least two characters.")
	}
	return Name(s), nil
}

func (n Name) String() string { return string(n) }

func (n *Name) UnmarshalJSON(b []byte) error {
	s, err := decodeString(b, "Name")
	if err != nil {
		return err
	}
	parsed, err := ParseName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// UserName is a login handle: 4-16 word characters.
type UserName string

// ParseUserName validates s as a username.
func ParseUserName(s string) (UserName, error) {
	if err := validate.Var(s, "user_name"); err != nil {
		return "", invalid("InvalidUserName", "The User Name Format is Invalid. Please provide 4 to 16 letters, digits or underscores.")
	}
	return UserName(s), nil
}

func (u UserName) String() string { return string(u) }

func (u *UserName) UnmarshalJSON(b []byte) error {
	s, err := decodeString(b, "UserName")
	if err != nil {
		return err
	}
	parsed, err := ParseUserName(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// PhoneNumber is 5-15 digits.
type PhoneNumber string

// ParsePhoneNumber validates s as a phone number.
func ParsePhoneNumber(s string) (PhoneNumber, error) {
	if err := validate.Var(s, "phone_number"); err != nil {
		return "", invalid("InvalidPhoneNumber", "The Phone Number Format is Invalid. Please provide a valid numeric phone number.")
	}
	return PhoneNumber(s), nil
}

func (p PhoneNumber) String() string { return string(p) }

func (p *PhoneNumber) UnmarshalJSON(b []byte) error {
	s, err := decodeString(b, "PhoneNumber")
	if err != nil {
		return err
	}
	parsed, err := ParsePhoneNumber(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ZipCode is a six digit postal code that does not start with zero.
type ZipCode string

// ParseZipCode validates s as a zip code.
func ParseZipCode(s string) (ZipCode, error) {
	if err := validate.Var(s, "zip_code"); err != nil {
		return "", invalid("InvalidZipCode", "The Zip Code Format is Invalid. Please provide a valid six digit zip code.")
	}
	return ZipCode(s), nil
}

func (z ZipCode) String() string { return string(z) }

func (z *ZipCode) UnmarshalJSON(b []byte) error {
	s, err := decodeString(b, "ZipCode")
	if err != nil {
		return err
	}
	parsed, err := ParseZipCode(s)
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// CountryCode is a 1-3 digit numeric dialing code.
type CountryCode string

// ParseCountryCode validates s as a country code.
func ParseCountryCode(s string) (CountryCode, error) {
	if err := validate.Var(s, "dialing_code"); err != nil {
		return "", invalid("InvalidCountryCode", "The Country Code Format is Invalid. Please provide a valid numeric country code.")
	}
	return CountryCode(s), nil
}

func (c CountryCode) String() string { return string(c) }

func (c *CountryCode) UnmarshalJSON(b []byte) error {
	s, err := decodeString(b, "CountryCode")
	if err != nil {
		return err
	}
	parsed, err := ParseCountryCode(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
