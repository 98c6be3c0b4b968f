package staff

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type Staff struct {
	ID        string    `json:"staff_id" db:"staff_id"`
	Name      string    `json:"name" db:"name"`
	Subject   string    `json:"subject" db:"subject"`
	PinHash   []byte    `json:"-" db:"pin_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

func (s *Staff) SetPin(pin string, cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return err
	}
	s.PinHash = hash
	return nil
}

func (s *Staff) CheckPin(pin string) error {
	return bcrypt.CompareHashAndPassword(s.PinHash, []byte(pin))
}

// Class is meaningful only together with its owning staff.
type Class struct {
	ID      int    `json:"class_id" db:"class_id"`
	Name    string `json:"class_name" db:"class_name"`
	StaffID string `json:"staff_id" db:"staff_id"`
}

// NewStaff contains information needed to sign up a Staff and their Classes.
type NewStaff struct {
	Name    string   `json:"name"`
	Subject string   `json:"subject"`
	Classes []string `json:"classes" validate:"required,min=1,dive,notblank"`
	Pin     string   `json:"pin" validate:"required,pin"`
}

func (ns NewStaff) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

// Credentials are submitted on every login.
type Credentials struct {
	StaffID   string `json:"staffId" validate:"required"`
	ClassName string `json:"className" validate:"required"`
	Pin       string `json:"pin" validate:"required"`
}

func (c Credentials) Validate(validate *validator.Validate) error {
	return validate.Struct(c)
}
