package httperr

import "errors"

// Kind groups business errors by how the caller should react.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindOutsideSchedule Kind = "outside_schedule"
	KindBreakConflict   Kind = "break_conflict"
	KindSlotConflict    Kind = "slot_conflict"
	KindNotFound        Kind = "not_found"
	KindInvalidState    Kind = "invalid_state"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func New(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

// ErrBusiness builds a validation error identified only by its code.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validation(code, message string) error {
	return New(KindValidation, code, message)
}

func OutsideSchedule(code, message string) error {
	return New(KindOutsideSchedule, code, message)
}

func BreakConflict(code, message string) error {
	return New(KindBreakConflict, code, message)
}

func SlotConflict(code, message string) error {
	return New(KindSlotConflict, code, message)
}

func NotFoundErr(code, message string) error {
	return New(KindNotFound, code, message)
}

func InvalidState(code, message string) error {
	return New(KindInvalidState, code, message)
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return BusinessError{}, false
}

func IsBusiness(err error, code string) bool {
	be, ok := AsBusiness(err)
	return ok && be.Code == code
}

func IsKind(err error, kind Kind) bool {
	be, ok := AsBusiness(err)
	return ok && be.Kind == kind
}
