package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code catégorise une erreur applicative
type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodePermission Code = "permission"
	CodeConflict   Code = "conflict"
	CodeDependency Code = "dependency"
)

// Error erreur applicative typée, portée jusqu'au handler HTTP
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Permission(format string, args ...interface{}) *Error {
	return &Error{Code: CodePermission, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Dependency enveloppe une panne du stockage ou du fournisseur d'identité
func Dependency(err error, format string, args ...interface{}) *Error {
	return &Error{Code: CodeDependency, Message: fmt.Sprintf(format, args...), Err: err}
}

// HTTPStatus mappe la taxonomie vers un code HTTP
func HTTPStatus(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Code {
		case CodeValidation:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodePermission:
			return http.StatusForbidden
		case CodeConflict:
			return http.StatusConflict
		case CodeDependency:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// IsCode vérifie qu'une erreur porte un code donné
func IsCode(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
