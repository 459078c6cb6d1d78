package domain

// LessonDurationMinutes фиксированная длительность атомарного занятия.
// Более длинные сессии представляются несколькими подряд идущими бронированиями.
const LessonDurationMinutes = 30

// Ограничения значений
const (
	MinDayOfWeek = 0 // воскресенье
	MaxDayOfWeek = 6 // суббота

	// MaxSlotsRangeDays максимальный размер диапазона запроса слотов
	MaxSlotsRangeDays = 62

	MaxReasonLength = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TutorCapabilityMode формат занятий, который тутор готов проводить.
// Приходит из профиля тутора (ProfileService), в бронированиях не хранится.
type TutorCapabilityMode string

const (
	CapabilityOnline  TutorCapabilityMode = "ONLINE"
	CapabilityOffline TutorCapabilityMode = "OFFLINE"
	CapabilityBoth    TutorCapabilityMode = "BOTH"
)

// Allows проверяет, что формат бронирования совместим с возможностями тутора
func (c TutorCapabilityMode) Allows(mode BookingMode) bool {
	switch c {
	case CapabilityBoth:
		return true
	case CapabilityOnline:
		return mode == ModeOnline
	case CapabilityOffline:
		return mode == ModeOffline
	default:
		return false
	}
}

// UserRole роль аутентифицированного пользователя.
// Приходит из заголовков аутентификации (gateway).
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleTutor   UserRole = "TUTOR"
)

// Valid проверяет, что роль известна сервису
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTutor
}

// AddressOption выбор стороны, чей адрес используется для очного занятия
type AddressOption string

const (
	AddressOptionStudent AddressOption = "student"
	AddressOptionTutor   AddressOption = "tutor"
)
