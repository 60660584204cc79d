package pokemon

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by every error this package builds.
const (
	CodeNotFound     = "POKEMON_NOT_FOUND"
	CodeConflict     = "POKEMON_CONFLICT"
	CodeStoreFailure = "STORE_FAILURE"
	CodeLockFailure  = "LOCK_FAILURE"
	CodeInvalidInput = "INVALID_INPUT"
)

// NotFound reports that no record with id exists where one is required.
func NotFound(id int64) error {
	return goerrors.New(fmt.Sprintf("pokemon %d not found", id), goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(CodeNotFound)
}

// Conflict reports a create for an id the store already holds.
func Conflict(id int64) error {
	return goerrors.New(fmt.Sprintf("pokemon %d already exists", id), goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(CodeConflict)
}

// StoreFailure wraps any store I/O or query error.
func StoreFailure(op string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "store "+op+" failed").
		WithCode(http.StatusInternalServerError).
		WithTextCode(CodeStoreFailure)
}

// LockFailure reports that the cache lock guarded a panicking critical section.
func LockFailure(op string) error {
	return goerrors.New("cache "+op+": lock poisoned by an earlier panic", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(CodeLockFailure)
}

// InvalidInput reports a malformed id or request body. Field level failures from
// Fields.Validate are kept and can be read back with FieldErrors.
func InvalidInput(err error) error {
	var rich *goerrors.Error

	var fields validation.Errors
	if errors.As(err, &fields) {
		rich = goerrors.FromOzzoValidation(err, "invalid pokemon fields")
	} else {
		rich = goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid input: "+err.Error())
	}

	return rich.WithCode(http.StatusBadRequest).WithTextCode(CodeInvalidInput)
}

// FieldErrors returns the per field validation messages carried by err, keyed by
// JSON field name. It is nil for errors without field detail.
func FieldErrors(err error) map[string]string {
	var rich *goerrors.Error
	if !errors.As(err, &rich) || len(rich.ValidationErrors) == 0 {
		return nil
	}
	return rich.ValidationMap()
}

func IsNotFound(err error) bool     { return hasTextCode(err, CodeNotFound) }
func IsConflict(err error) bool     { return hasTextCode(err, CodeConflict) }
func IsStoreFailure(err error) bool { return hasTextCode(err, CodeStoreFailure) }
func IsLockFailure(err error) bool  { return hasTextCode(err, CodeLockFailure) }
func IsInvalidInput(err error) bool { return hasTextCode(err, CodeInvalidInput) }

// TextCode returns the machine readable code of err, or "" for foreign errors.
func TextCode(err error) string {
	var rich *goerrors.Error
	if errors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// HTTPStatus maps err to a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	var rich *goerrors.Error
	if errors.As(err, &rich) && rich.Code != 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

// Message returns the user facing message of err.
func Message(err error) string {
	var rich *goerrors.Error
	if errors.As(err, &rich) {
		return rich.Message
	}
	return err.Error()
}

func hasTextCode(err error, code string) bool {
	return err != nil && TextCode(err) == code
}
