package utils

import (
	"net/mail"
	"regexp"
)

// E.164 国际号码格式，最长 15 位
var phonePattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// ValidateLatitude 纬度范围 [-90, 90]
func ValidateLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidateLongitude 经度范围 [-180, 180]
func ValidateLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}
