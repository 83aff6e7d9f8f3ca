package validator

import (
	"errors"
	"strconv"
	"strings"

	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
)

const (
	DefaultFilter = texture.TypeSkinGroup
	DefaultSort   = texture.SortTime
)

var (
	ErrInvalidPage      = errors.New("invalid page")
	ErrInvalidTextureID = errors.New("tid must be a positive integer")
	ErrInvalidUploader  = errors.New("uid must be a non-negative integer")
)

// ValidatePage accepts an empty value as the first page. Zero and negative
// pages are clamped later, like any other out-of-range page.
func ValidatePage(page string) (int, error) {
	if page == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(page)
	if err != nil {
		return 0, ErrInvalidPage
	}

	return texture.NormalizePage(p), nil
}

func ParseTextureID(s string) (texture.ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidTextureID
	}

	return texture.ID(id), nil
}

func ParseUploaderID(s string) (user.ID, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, ErrInvalidUploader
	}

	return user.ID(id), nil
}

func ParseFilter(s string) texture.AssetType {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFilter
	}
	return texture.AssetType(s)
}

func ParseSort(s string) texture.SortKey {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSort
	}
	return texture.SortKey(s)
}

// ParseVisibility returns nil when the value is missing or not a boolean.
func ParseVisibility(s string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}
