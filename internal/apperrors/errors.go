package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrency conflict (row lock or unique
// constraint violation). Callers may retry the operation.
var ErrConflict = errors.New("concurrency conflict")

// ErrInternal indicates an unexpected failure, such as an out-of-range
// arithmetic result during recomputation. The whole unit of work aborts.
var ErrInternal = errors.New("internal error")
