package app

import "fmt"

// DomainError carries the HTTP status and the stable reason code consumers
// branch on. Expected rejections (moderation, cap, missing rows) travel as
// values of this type, never as panics.
type DomainError struct {
	Status  int
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}
