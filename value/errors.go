package value

import "errors"

var (
	ErrNotObject       = errors.New("value is not an object")
	ErrUnsupportedType = errors.New("unsupported value type")
)
