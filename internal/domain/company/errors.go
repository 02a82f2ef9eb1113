package company

import "errors"

var (
	ErrSettingsNotFound      = errors.New("no settings found for this organization")
	ErrSettingsAlreadyExists = errors.New("active settings already exist for this organization")
)
