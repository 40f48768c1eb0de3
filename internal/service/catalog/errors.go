package catalog

import "errors"

var (
	// ErrInvalidPolicy возвращается при некорректных параметрах генерации
	ErrInvalidPolicy = errors.New("catalog: invalid generation policy")

	// ErrInvalidSlot возвращается при некорректном слоте в каталоге
	ErrInvalidSlot = errors.New("catalog: invalid slot")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
