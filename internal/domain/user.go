package domain

import (
	"fmt"
	"strings"
	"time"
)

// Common user validation errors, all wrapping ErrValidation.
var (
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrEmptyFirstName      = fmt.Errorf("%w: first name cannot be empty", ErrValidation)
	ErrEmptyLastName       = fmt.Errorf("%w: last name cannot be empty", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 8 characters long", ErrInvalidPassword)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrInvalidPassword)
	ErrEmptyPassword       = fmt.Errorf("%w: password cannot be empty", ErrInvalidPassword)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrInvalidPassword)
)

// User represents a registered user of the task manager.
// A user owns the tasks it created and may be assigned tasks as executor.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given identity fields and plaintext
// password. The caller is responsible for hashing the password before storing
// the user. Returns an error if validation fails.
func NewUser(email, firstName, lastName, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password, // Plaintext password - must be hashed before storage
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.FirstName == "" {
		return ErrEmptyFirstName
	}

	if u.LastName == "" {
		return ErrEmptyLastName
	}

	// During creation or a password change the plaintext password is present
	// and must meet the length requirements; otherwise the user must already
	// carry a hash (the case for users loaded from the store).
	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
