package common

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNotOperator   = errors.New("user is not an operator")
	ErrCommitRunning = errors.New("commit already in progress")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var (
		validation *errs.ValidationError
		scheduling *errs.SchedulingError
		conflict   *errs.ConflictError
		notFound   *errs.NotFoundError
	)

	switch {
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrNotOperator):
		return "❌ Эта функция доступна только операторам"
	case errors.Is(err, ErrCommitRunning):
		return "⏳ Изменения по этому пакету уже применяются"
	case errors.As(err, &validation):
		return "❌ Некорректные данные: " + validation.Error()
	case errors.As(err, &scheduling):
		return fmt.Sprintf("❌ Не хватает дат: найдено %d из %d до %s",
			scheduling.Found, scheduling.Needed, scheduling.Horizon)
	case errors.As(err, &conflict):
		return "⚠️ Конфликт: " + conflict.Reason
	case errors.As(err, &notFound):
		return fmt.Sprintf("❌ Не найдено: %s #%d", notFound.Entity, notFound.ID)
	default:
		return "❌ Произошла ошибка"
	}
}
