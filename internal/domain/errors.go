package domain

import "errors"

// Виды ошибок конвейера. Компоненты оборачивают их через fmt.Errorf("%w: ...").
var (
	ErrNetwork       = errors.New("network error")
	ErrMalformedFeed = errors.New("malformed feed")
	ErrTemplate      = errors.New("template error")
	ErrStore         = errors.New("store error")
)
