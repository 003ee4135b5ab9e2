package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooShort rejects passwords under six characters before hashing.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"

	// DemoOTP is the fixed one-time code accepted by the signup and
	// password-reset flows. There is no real delivery backend.
	DemoOTP = "1234"
)

// User is a console account. Accounts are persisted as part of the users
// collection in the key-value store.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,min=3,max=150"`
	Mobile    string    `json:"mobile" validate:"required,min=6,max=20"`
	Password  string    `json:"password" validate:"required"`
	Role      string    `json:"role" validate:"oneof=user admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateUser builds a user with a hashed password. The mobile number doubles
// as the login name.
func CreateUser(name string, mobile string, password string) (*User, error) {
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:        time.Now().UnixMilli(),
		Name:      name,
		Mobile:    mobile,
		Password:  pw,
		Role:      ROLE_USER,
		CreatedAt: time.Now(),
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user.
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// IsAdmin reports whether the account may open the admin console.
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
