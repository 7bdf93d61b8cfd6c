package component

import "errors"

var ErrInvalidConfig = errors.New("component: invalid movement config")
