package entities

import (
	"github.com/google/uuid"
)

// Person is a phonebook entry. Name is unique across the directory; the
// uniqueness guard lives in the persistence layer.
type Person struct {
	ID     string  `validate:"required"`
	Name   string  `validate:"required"`
	Phone  *string `validate:"omitempty,min=5"`
	Street string  `validate:"required"`
	City   string  `validate:"required"`
}

// Address is the view projection of a person's street and city. It is
// computed at read time and never stored on its own.
type Address struct {
	Street string
	City   string
}

// NewPerson creates a person with a fresh id
func NewPerson(name string, phone *string, street, city string) *Person {
	return &Person{
		ID:     uuid.New().String(),
		Name:   name,
		Phone:  phone,
		Street: street,
		City:   city,
	}
}

// Address returns the person's address projection
func (p *Person) Address() Address {
	return Address{Street: p.Street, City: p.City}
}

// HasPhone reports whether the entry carries a phone number
func (p *Person) HasPhone() bool {
	return p.Phone != nil && *p.Phone != ""
}
