package get_tutor_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/ptr"
)

// UseCase use case для получения свободных слотов тутора
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	exceptionRepo    ExceptionRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	exceptionRepo ExceptionRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		exceptionRepo:    exceptionRepo,
		logger:           logger,
	}
}

// Execute выполняет use case получения свободных слотов.
// Чтение без побочных эффектов: ничего не резервирует и не блокирует.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetTutorSlots: tutor=%d, from=%s, to=%s",
		req.TutorID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetTutorSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Еженедельные окна доступности (без фильтра по датам —
	// повторение разворачивается по календарным дням диапазона)
	availability, err := uc.availabilityRepo.GetByTutorID(ctx, req.TutorID)
	if err != nil {
		uc.logger.Error("GetTutorSlots: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	// 3. Подтверждённые бронирования, пересекающие диапазон
	bookings, err := uc.bookingRepo.GetByTutorWithFilter(ctx, domain.TutorBookingsFilter{
		TutorID:       req.TutorID,
		IntersectFrom: &req.From,
		IntersectTo:   &req.To,
		Status:        ptr.Ptr(domain.StatusConfirmed),
	})
	if err != nil {
		uc.logger.Error("GetTutorSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 4. Недоступности, пересекающие диапазон
	exceptions, err := uc.exceptionRepo.GetByTutorIntersecting(ctx, req.TutorID, req.From, req.To)
	if err != nil {
		uc.logger.Error("GetTutorSlots: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	// 5. Чистая свёртка по календарным дням диапазона
	slots, err := generateSlots(req.From, req.To, availability, bookings, exceptions)
	if err != nil {
		uc.logger.Error("GetTutorSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetTutorSlots: generated %d slots for tutor=%d", len(slots), req.TutorID)

	return &Response{
		TutorID: req.TutorID,
		From:    req.From,
		To:      req.To,
		Slots:   slots,
	}, nil
}
