package service

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/auth"
	"reviewhub/internal/microservices/http-api/models"
)

const (
	maxUsernameLength  = 25
	minPasswordLength  = 8
	maxGenreNameLength = 64
	maxTitleLength     = 255
	minGenreFilter     = 3
	MaxPageSize        = 100
)

// maxPage keeps (page-1)*size inside int.
const maxPage = math.MaxInt / MaxPageSize

var validate = validator.New()

func validateUsername(username string) error {
	if username == "" {
		return apperr.Validation("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return apperr.Validationf("username must be at most %d characters", maxUsernameLength)
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return apperr.Validation("username must not contain whitespace")
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return apperr.Validation("email must be a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Validationf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > auth.MaxPasswordBytes {
		return apperr.Validationf("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

// normalizeGenreName trims the name and checks its length.
func normalizeGenreName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("genre name required")
	}
	if utf8.RuneCountInString(name) > maxGenreNameLength {
		return "", apperr.Validationf("genre name must be at most %d characters", maxGenreNameLength)
	}
	return name, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return apperr.Validationf("title must be at most %d characters", maxTitleLength)
	}
	return nil
}

// validateReleaseYear accepts 0 through the current year at now.
func validateReleaseYear(year int, now time.Time) error {
	if year < 0 || year > now.Year() {
		return apperr.Validationf("release_year must be between 0 and %d", now.Year())
	}
	return nil
}

func validateRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return apperr.Validationf("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	return nil
}

func validateComment(comment string) error {
	if utf8.RuneCountInString(comment) > models.MaxCommentLength {
		return apperr.Validationf("comment must be at most %d characters", models.MaxCommentLength)
	}
	return nil
}

// notNull rejects explicit nulls in patch bodies; none of the patchable fields are nullable.
func notNull(field string, null bool) error {
	if null {
		return apperr.Validationf("%s must not be null", field)
	}
	return nil
}

// validatePage checks 1-indexed page/size parameters.
func validatePage(page, size int) error {
	if page < 1 || page > maxPage {
		return apperr.Validationf("page must be between 1 and %d", maxPage)
	}
	if size < 1 || size > MaxPageSize {
		return apperr.Validationf("size must be between 1 and %d", MaxPageSize)
	}
	return nil
}
