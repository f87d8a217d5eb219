package utils

import "strings"

// Contains checks if the slice holds the value.
func Contains[T comparable](slice []T, value T) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}

// HasExtension reports whether the file name ends with one of the
// extensions, ignoring case.
func HasExtension(name string, extensions []string) bool {
	name = strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
