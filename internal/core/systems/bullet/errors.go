package bullet

import "errors"

var (
	ErrInvalidType = errors.New("bullet: invalid projectile type")
)
