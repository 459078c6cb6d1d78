package profileservice

import "github.com/m04kA/TMP-LessonService/internal/domain"

// Tutor профиль тутора из ProfileService
type Tutor struct {
	ID          int64                      `json:"id"`
	UserID      int64                      `json:"user_id"`
	Name        string                     `json:"name"`
	Mode        domain.TutorCapabilityMode `json:"mode"` // ONLINE | OFFLINE | BOTH
	MeetingLink *string                    `json:"meeting_link"`
	Address     *string                    `json:"address"`
}

// Student профиль студента из ProfileService
type Student struct {
	ID      int64   `json:"id"`
	UserID  int64   `json:"user_id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
}

// Subject предмет, закреплённый за тутором (запись TutorSubject)
type Subject struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
