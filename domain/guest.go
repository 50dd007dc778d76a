// Package domain contains core concepts of the group chat system.
// This file defines Guest entities and the rules of name selection.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"guest-chat/errors"
)

// Guest is an anonymous identity bound 1:1 to a transport session.
// The name is immutable once chosen. CurrentRoomID is empty when the
// guest is not in any room.
type Guest struct {
	ID            string
	SessionToken  string
	Name          string
	CurrentRoomID string
	CreatedAt     time.Time
}

func (g Guest) InRoom() bool {
	return g.CurrentRoomID != ""
}

var guestNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,30}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The pattern also enforces the 2-30 length bounds.
	_ = v.RegisterValidation("guestname", func(fl validator.FieldLevel) bool {
		return guestNamePattern.MatchString(fl.Field().String())
	})
	return v
}

type chooseNameRequest struct {
	Name string `validate:"required,guestname"`
}

// ValidateGuestName checks the chosen display name against the allowed
// alphabet and length before any storage is touched.
func ValidateGuestName(name string) error {
	if err := validate.Struct(chooseNameRequest{Name: name}); err != nil {
		return fmt.Errorf("%w: %q", errors.ErrInvalidNameFormat, name)
	}
	return nil
}
