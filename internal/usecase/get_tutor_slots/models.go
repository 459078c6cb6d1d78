package get_tutor_slots

import (
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	TutorID int64     // ID тутора
	From    time.Time // Начало диапазона (включительно)
	To      time.Time // Конец диапазона (включительно)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	TutorID int64         // ID тутора
	From    time.Time     // Запрошенное начало диапазона
	To      time.Time     // Запрошенный конец диапазона
	Slots   []domain.Slot // Свободные слоты в хронологическом порядке
}
