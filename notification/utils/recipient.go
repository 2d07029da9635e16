package utils

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ExtractDisplayNameFromEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return email
	}

	caser := cases.Title(language.English)
	return caser.String(parts[0])
}

// IsValidPhoneNumber reports whether the number parses as a valid
// E.164-style phone number. Numbers without a region prefix are
// rejected since SMS and WhatsApp gateways require one.
func IsValidPhoneNumber(number string) bool {
	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

// NormalizePhoneNumber formats the number in E.164. Invalid input is
// returned unchanged so callers can report the original value.
func NormalizePhoneNumber(number string) string {
	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return number
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return number
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
