package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Password rules.
const (
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
	forbiddenPassword = "password"
)

// UserUpdatableFields lists the only keys a profile update may carry.
var UserUpdatableFields = []string{"name", "email", "password", "age"}

var validate = validator.New()

// User is a registered account. Password, HashedPassword, Tokens and Avatar
// never leave the process: they are excluded from JSON and from Public.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"` // plaintext, only set between validation and hashing
	HashedPassword string    `json:"-"`
	Tokens         []string  `json:"-"`
	Avatar         []byte    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PublicUser is the client-facing view of a User.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser builds a User from signup fields. Name and email are normalised
// before validation; the plaintext password must be hashed by the caller
// before the user is stored.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Age:       age,
		Password:  strings.TrimSpace(password),
		Tokens:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user's fields. A plaintext password, when present, is
// checked against the password rules; otherwise a hash must already exist.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if u.Name == "" {
		return NewValidationError("name", "is required", nil)
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.Age < 0 {
		return NewValidationError("age", "must be a positive number", nil)
	}
	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrInvalidPassword)
	}
	return nil
}

// Public returns the redacted representation sent to API consumers.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// HasToken reports whether token is one of the user's active sessions.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is present and syntactically valid.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "is required", ErrInvalidEmail)
	}
	if err := validate.Var(email, "email"); err != nil {
		return NewValidationError("email", "is invalid", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword enforces length bounds and rejects any password that
// contains the word "password" in any letter case.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", "is required", ErrInvalidPassword)
	case len(password) < MinPasswordLength:
		return NewValidationError("password", "must be at least 6 characters long", ErrInvalidPassword)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", "must be at most 72 bytes long", ErrInvalidPassword)
	case strings.Contains(strings.ToLower(password), forbiddenPassword):
		return NewValidationError("password", `cannot contain the word "password"`, ErrInvalidPassword)
	}
	return nil
}

// UserPatch is an allow-listed profile update. Nil fields are left untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// ParseUserPatch decodes a raw JSON object into a UserPatch. Any key outside
// UserUpdatableFields rejects the whole patch.
func ParseUserPatch(raw map[string]json.RawMessage) (*UserPatch, error) {
	if err := CheckAllowedFields(raw, UserUpdatableFields...); err != nil {
		return nil, err
	}

	patch := &UserPatch{}
	for key, value := range raw {
		var err error
		switch key {
		case "name":
			patch.Name = new(string)
			err = json.Unmarshal(value, patch.Name)
		case "email":
			patch.Email = new(string)
			err = json.Unmarshal(value, patch.Email)
		case "password":
			patch.Password = new(string)
			err = json.Unmarshal(value, patch.Password)
		case "age":
			patch.Age = new(int)
			err = json.Unmarshal(value, patch.Age)
		}
		if err != nil {
			return nil, NewValidationError(key, "has an invalid type", ErrInvalidUpdate)
		}
	}
	return patch, nil
}

// Apply writes the patch onto u and re-validates it. The caller should pass
// a copy when the original must survive a failed validation.
func (p *UserPatch) Apply(u *User) error {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Password != nil {
		u.Password = strings.TrimSpace(*p.Password)
		if u.Password == "" {
			return NewValidationError("password", "is required", ErrInvalidPassword)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return u.Validate()
}
