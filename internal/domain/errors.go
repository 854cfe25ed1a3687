package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrBadCredentials      = errors.New("bad credentials")
	ErrTransport           = errors.New("transport failure")
	ErrInvalidData         = errors.New("invalid data")
	ErrUnresolvableTaxRate = errors.New("unresolvable tax rate")
)
