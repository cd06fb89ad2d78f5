package models

import (
	"fmt"
	"strings"

	"schoolzy/internal/utils"
)

// School documents live in Mongo as free-form maps so that legacy records
// with stray keys survive round trips; see the sanitize package for the
// canonical shape. SchoolInput is the validated surface for admin writes.
type SchoolInput struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Location    string   `json:"location" validate:"required,min=2,max=100"`
	Category    string   `json:"category" validate:"required,oneof=Elementary Middle High University"`
	Type        string   `json:"type" validate:"required,oneof=Public Private"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Address     string   `json:"address" validate:"omitempty,max=200"`
	Phone       string   `json:"phone" validate:"omitempty,max=30"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Website     string   `json:"website" validate:"omitempty,url"`
	Facilities  []string `json:"facilities"`
	Established int      `json:"established"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

func (s SchoolInput) Validate() error {
	validate := utils.GetValidator()
	if err := validate.Struct(s); err != nil {
		errs := utils.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}

// Document flattens the input into the stored map shape.
func (s SchoolInput) Document() map[string]interface{} {
	facilities := s.Facilities
	if facilities == nil {
		facilities = []string{}
	}
	return map[string]interface{}{
		"name":        s.Name,
		"location":    s.Location,
		"category":    s.Category,
		"type":        s.Type,
		"description": s.Description,
		"address":     s.Address,
		"phone":       s.Phone,
		"email":       s.Email,
		"website":     s.Website,
		"facilities":  facilities,
		"established": float64(s.Established),
		"latitude":    s.Latitude,
		"longitude":   s.Longitude,
	}
}
