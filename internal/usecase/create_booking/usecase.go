package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/booking"
	profileClient "github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
	"github.com/m04kA/TMP-LessonService/pkg/ptr"
	"github.com/m04kA/TMP-LessonService/pkg/txmanager"
)

// UseCase use case для создания бронирования.
// Все проверки входных данных выполняются до открытия транзакции;
// внутри сериализуемой транзакции остаются только авторитетная проверка
// конфликтов и вставка строки.
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	exceptionRepo    ExceptionRepository
	profileClient    ProfileServiceClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	exceptionRepo ExceptionRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		exceptionRepo:    exceptionRepo,
		profileClient:    profileClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования.
// Сериализуемая транзакция гарантирует, что из двух конкурентных запросов
// на один слот ровно один завершится успехом, второй получит ErrSlotTaken.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, tutor=%d, subject=%d, startAt=%s, mode=%s",
		req.UserID, req.TutorID, req.SubjectID, req.StartAt.Format(time.RFC3339), req.Mode)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Слот в прошлом не бронируется
	now := uc.timeProvider.Now()
	if req.StartAt.Before(now) {
		uc.logger.Warn("CreateBooking: start time %s is in the past", req.StartAt.Format(time.RFC3339))
		return nil, ErrTimeInPast
	}

	startAt := req.StartAt.UTC()
	endAt := startAt.Add(domain.LessonDurationMinutes * time.Minute)

	// 3. Нормализуем формат занятия (BOTH разрешается в ONLINE/OFFLINE)
	mode, err := resolveMode(req.Mode, req.AddressOption)
	if err != nil {
		uc.logger.Warn("CreateBooking: mode resolution failed: %v", err)
		return nil, err
	}

	// 4. Профиль тутора
	tutor, err := uc.profileClient.GetTutor(ctx, req.TutorID)
	if err != nil {
		if errors.Is(err, profileClient.ErrTutorNotFound) {
			uc.logger.Warn("CreateBooking: tutor id=%d not found", req.TutorID)
			return nil, ErrTutorNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tutor id=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: failed to get tutor: %v", ErrInternal, err)
	}

	// 5. Совместимость формата с возможностями тутора
	if !tutor.Mode.Allows(mode) {
		uc.logger.Warn("CreateBooking: mode %s not supported by tutor id=%d (capability=%s)",
			mode, req.TutorID, tutor.Mode)
		return nil, fmt.Errorf("%w: tutor capability is %s", ErrModeNotSupported, tutor.Mode)
	}

	// 6. Профиль студента (по ID пользователя из сессии)
	student, err := uc.profileClient.GetStudentByUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, profileClient.ErrStudentNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d has no student profile", req.UserID)
			return nil, ErrStudentNotFound
		}
		uc.logger.Error("CreateBooking: failed to get student profile for user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get student profile: %v", ErrInternal, err)
	}

	// 7. Тутор должен вести запрошенный предмет
	subject, err := uc.profileClient.GetTutorSubject(ctx, req.TutorID, req.SubjectID)
	if err != nil {
		if errors.Is(err, profileClient.ErrSubjectNotOffered) {
			uc.logger.Warn("CreateBooking: subject id=%d not offered by tutor id=%d", req.SubjectID, req.TutorID)
			return nil, ErrSubjectNotOffered
		}
		uc.logger.Error("CreateBooking: failed to get tutor subject: %v", err)
		return nil, fmt.Errorf("%w: failed to get tutor subject: %v", ErrInternal, err)
	}

	// 8. Время должно попадать в окно еженедельной доступности
	weekday := int(startAt.Weekday())
	windows, err := uc.availabilityRepo.GetByTutorAndWeekday(ctx, req.TutorID, weekday)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	if err := validateWithinAvailability(windows, startAt); err != nil {
		uc.logger.Warn("CreateBooking: slot %s is outside availability windows of tutor id=%d",
			startAt.Format(time.RFC3339), req.TutorID)
		return nil, err
	}

	// 9. Разрешаем место проведения (до транзакции — отказ дёшев)
	place, err := resolvePlace(mode, req.AddressOption, tutor, student)
	if err != nil {
		uc.logger.Warn("CreateBooking: place resolution failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 10. Авторитетная проверка конфликтов и вставка — одна сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 10.1. Подтверждённые бронирования, пересекающие слот (с блокировкой строк)
		conflicts, err := uc.bookingRepo.GetByTutorWithFilter(txCtx, domain.TutorBookingsFilter{
			TutorID:       req.TutorID,
			IntersectFrom: &startAt,
			IntersectTo:   &endAt,
			Status:        ptr.Ptr(domain.StatusConfirmed),
			ForUpdate:     true,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check conflicts: %v", err)
			return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			uc.logger.Warn("CreateBooking: slot %s already taken for tutor id=%d (booking id=%d)",
				startAt.Format(time.RFC3339), req.TutorID, conflicts[0].ID)
			return ErrSlotTaken
		}

		// 10.2. Слот не должен пересекаться с недоступностью, добавленной
		// после генерации рекомендательного списка слотов
		exceptions, err := uc.exceptionRepo.GetByTutorIntersecting(txCtx, req.TutorID, startAt, endAt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check exceptions: %v", err)
			return fmt.Errorf("%w: failed to check exceptions: %v", ErrInternal, err)
		}

		if len(exceptions) > 0 {
			uc.logger.Warn("CreateBooking: slot %s intersects unavailability id=%d of tutor id=%d",
				startAt.Format(time.RFC3339), exceptions[0].ID, req.TutorID)
			return ErrSlotUnavailable
		}

		// 10.3. Вставка подтверждённого бронирования
		booking := &domain.Booking{
			TutorID:   req.TutorID,
			StudentID: student.ID,
			SubjectID: req.SubjectID,
			Mode:      mode,
			Location:  place.Location,
			Address:   place.Address,
			StartAt:   startAt,
			EndAt:     endAt,
			Status:    domain.StatusConfirmed,
			// Денормализация для истории
			TutorName:   tutor.Name,
			SubjectName: subject.Name,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Exclusion constraint — вторая линия защиты: наблюдаемое
			// поведение то же, что у проверки конфликтов
			if errors.Is(err, bookingRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected slot %s for tutor id=%d",
					startAt.Format(time.RFC3339), req.TutorID)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Конфликт сериализации / таймаут ожидания блокировки — можно повторить
		if errors.Is(err, txmanager.ErrBusy) {
			uc.logger.Warn("CreateBooking: transaction contention for tutor id=%d: %v", req.TutorID, err)
			return nil, fmt.Errorf("%w: %v", ErrServerBusy, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d (tutor=%d, student=%d, %s)",
		result.ID, result.TutorID, result.StudentID, result.StartAt.Format(time.RFC3339))

	return fromDomainBooking(result), nil
}
