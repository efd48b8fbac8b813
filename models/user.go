package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventmanagement/utils"
)

type Role string

const (
	RoleClient Role = "Client"
	RoleAdmin  Role = "Admin"
)

// PhoneNumber is stored as a number but clients often post it as a string
// straight from a form field.
type PhoneNumber int64

func (p *PhoneNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*p = 0
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*p = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("phone number must be numeric: %q", raw)
	}
	*p = PhoneNumber(n)
	return nil
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Email       string             `bson:"email" json:"email" validate:"required"`
	Password    string             `bson:"password,omitempty" json:"-" validate:"required,min=6"`
	PhoneNumber PhoneNumber        `bson:"phoneNumber" json:"phoneNumber" validate:"required"`
	Role        Role               `bson:"role" json:"role" validate:"oneof=Client Admin"`
	RSVPs       []UserRSVP         `bson:"rsvps" json:"rsvps"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Normalize applies the field-level transforms the collection relies on:
// trimmed name, lowercase email and the default role.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleClient
	}
}

// SetPassword replaces the stored password with its bcrypt hash. Callers
// validate the plain value before calling it.
func (u *User) SetPassword(plain string) error {
	hashed, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return utils.CheckPasswordHash(plain, u.Password)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
