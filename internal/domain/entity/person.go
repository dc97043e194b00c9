package entity

import (
	"strings"
	"time"
)

// Person datos personales compartidos por Client y User (composición, no herencia).
type Person struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	BirthDate *time.Time
}

// FullName nombre y apellido separados por un espacio.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age edad en años cumplidos a la fecha now (calendario, no días/365.25).
// Sin fecha de nacimiento, o con fecha futura, devuelve 0.
func (p Person) Age(now time.Time) int {
	if p.BirthDate == nil {
		return 0
	}
	b := p.BirthDate.In(now.Location())
	years := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// NormalizeEmail clave natural de personas: sin espacios y en minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
