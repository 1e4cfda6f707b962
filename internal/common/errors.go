package common

import (
	"errors"
	"fmt"
)

// Kind classifies domain failures so callers can branch on them.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindQuotaExceeded
	KindInvalidInput
	KindInsufficientStock
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is a domain error. Code is the discriminator sent to clients
// (e.g. "barcode_exists", "free_limit_reached").
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *Error with the same kind and code, so sentinel values
// below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithDetail returns a copy of e carrying an extra detail entry.
func (e *Error) WithDetail(key, value string) *Error {
	cp := *e
	cp.Details = make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func QuotaExceeded(code, message string) *Error {
	return &Error{Kind: KindQuotaExceeded, Code: code, Message: message}
}

func InvalidInput(code, message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: message}
}

func InsufficientStock(code, message string) *Error {
	return &Error{Kind: KindInsufficientStock, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func Forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

// Discriminators shared across the service layer.
var (
	ErrManagerNotFound      = NotFound("manager_not_found", "manager code does not exist")
	ErrInvalidManagerCode   = NotFound("invalid_manager_code", "manager code does not exist")
	ErrEmployeeNotFound     = NotFound("employee_not_found", "employee does not exist")
	ErrProductNotFound      = NotFound("product_not_found", "product does not exist")
	ErrSaleNotFound         = NotFound("sale_not_found", "sale does not exist")
	ErrBarcodeExists        = Conflict("barcode_exists", "barcode already registered for this store")
	ErrCodeAlreadyUsed      = Conflict("code_already_used", "activation code has already been used")
	ErrEmployeeApproved     = Conflict("employee_already_approved", "employee is already approved")
	ErrCodeGenerationFailed = Conflict("code_generation_failed", "could not allocate a unique manager code")
	ErrFreeLimitReached     = QuotaExceeded("free_limit_reached", "free accounts are limited to 25 products")
	ErrProRequired          = QuotaExceeded("pro_required", "feature requires a pro account")
	ErrInvalidCode          = InvalidInput("invalid_code", "activation code does not exist")
	ErrNoDataProvided       = InvalidInput("no_data_provided", "no fields to update")
	ErrBarcodeImmutable     = InvalidInput("barcode_immutable", "barcode cannot be changed")
	ErrInvalidPermission    = InvalidInput("invalid_permission", "unknown permission level")
	ErrInvalidStatus        = InvalidInput("invalid_status", "unknown employee status")
	ErrInvalidCurrency      = InvalidInput("invalid_currency", "unsupported currency label")
	ErrInvalidFilter        = InvalidInput("invalid_filter", "unknown statistics filter")
	ErrInvalidDateRange     = InvalidInput("invalid_date_range", "start_date and end_date must form a valid range")
	ErrInvalidDataType      = InvalidInput("invalid_data_type", "data_type must be products, sales or all")
	ErrEmptySale            = InvalidInput("empty_sale", "a sale needs at least one item")
	ErrInvalidQuantity      = InvalidInput("invalid_quantity", "quantity is out of range")
	ErrNameRequired         = InvalidInput("name_required", "name is required")
	ErrBarcodeRequired      = InvalidInput("barcode_required", "barcode is required")
	ErrInvalidPrice         = InvalidInput("invalid_price", "prices must not be negative")
	ErrManagerCodeRequired  = Unauthorized("manager_code_required", "a manager code or session token is required")
	ErrInvalidSession       = Unauthorized("invalid_session", "session token is invalid or expired")
	ErrEmployeeNotApproved  = Forbidden("employee_not_approved", "employee is not approved for this store")
	ErrInsufficientRole     = Forbidden("insufficient_role", "your permission level does not allow this action")
	ErrInsufficientQuantity = InsufficientStock("insufficient_quantity", "not enough stock for the requested quantity")
)

// AsError extracts a domain error from err.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsError(err)
	return ok && de.Kind == kind
}
