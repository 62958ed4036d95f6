package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrCustomerInactive = errors.New("customer is inactive")
	ErrExportFormat     = errors.New("unsupported export format")
)
