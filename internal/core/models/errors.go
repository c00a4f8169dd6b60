package models

import "errors"

var ErrInvalidTarget = errors.New("models: invalid target config")
