package scoring

import (
	"errors"
	"fmt"
)

var (
	// значение вне шкалы или некорректная запись
	ErrInvalidInput = errors.New("invalid input")
	// ссылка на несуществующий идентификатор
	ErrDanglingReference = errors.New("dangling reference")
)

func InvalidInput(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, fmt.Sprintf(format, args...))
}

// DanglingReference сообщает, что объект kind с идентификатором id не найден.
func DanglingReference(owner, kind, id string) error {
	return fmt.Errorf("%w: %s references unknown %s %q", ErrDanglingReference, owner, kind, id)
}
