package commerce

import (
    "errors"
    "fmt"
    "sort"
    "strings"
)

type ErrorKind string

const (
    ErrKindAuth       ErrorKind = "auth"
    ErrKindForbidden  ErrorKind = "forbidden"
    ErrKindValidation ErrorKind = "validation"
    ErrKindNotFound   ErrorKind = "not_found"
    ErrKindTransient  ErrorKind = "transient"
)

// APIError classifies every failed upstream call into the taxonomy the rest
// of the gateway switches on. Fields is only set for validation errors.
type APIError struct {
    Kind    ErrorKind
    Status  int
    Message string
    Fields  map[string][]string
}

func (e *APIError) Error() string {
    if e.Message != "" {
        return e.Message
    }
    return fmt.Sprintf("upstream error (%s, status %d)", e.Kind, e.Status)
}

// FlattenFields joins field-level validation messages into a single
// human-readable line, with fields in stable order.
func (e *APIError) FlattenFields() string {
    if len(e.Fields) == 0 {
        return e.Message
    }
    fields := make([]string, 0, len(e.Fields))
    for field := range e.Fields {
        fields = append(fields, field)
    }
    sort.Strings(fields)

    parts := make([]string, 0, len(fields))
    for _, field := range fields {
        parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], ", ")))
    }
    return strings.Join(parts, "; ")
}

func AsAPIError(err error) *APIError {
    var apiErr *APIError
    if errors.As(err, &apiErr) {
        return apiErr
    }
    return nil
}

func IsKind(err error, kind ErrorKind) bool {
    apiErr := AsAPIError(err)
    return apiErr != nil && apiErr.Kind == kind
}

func IsAuth(err error) bool {
    return IsKind(err, ErrKindAuth)
}

func IsNotFound(err error) bool {
    return IsKind(err, ErrKindNotFound)
}
