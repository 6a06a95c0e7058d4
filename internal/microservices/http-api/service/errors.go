package service

import (
	"errors"
	"strings"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/repository"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("incorrect username or password")
	ErrInvalidToken       = apperr.Unauthorized("could not validate credentials")
	ErrExpiredToken       = apperr.Unauthorized("token has expired")
)

// mapNotFound turns a repository miss into a NotFound with the given detail.
func mapNotFound(err error, detail string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(detail)
	}
	return err
}

// mapUserConflict names the unique column a user write collided on.
func mapUserConflict(err error) error {
	if !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	if strings.Contains(repository.ConstraintName(err), "email") {
		return apperr.Conflict("email already registered", err)
	}
	return apperr.Conflict("username already taken", err)
}

// mapConflict converts any constraint violation into a Conflict.
// duplicate and reference give the details for each case.
func mapConflict(err error, duplicate, reference string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict(duplicate, err)
	case errors.Is(err, repository.ErrReference):
		return apperr.Conflict(reference, err)
	case errors.Is(err, repository.ErrCheck):
		return apperr.Conflict("invalid data", err)
	}
	return err
}
