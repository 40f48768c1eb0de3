package calllog

import "errors"

var (
	// ErrMarshalEntry возвращается при ошибке сериализации записи
	ErrMarshalEntry = errors.New("calllog.repository: failed to marshal entry")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("calllog.repository: redis command failed")
)
