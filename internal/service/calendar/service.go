package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	availabilityRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/availability"
	exceptionRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/exception"
	"github.com/m04kA/TMP-LessonService/internal/integrations/notifyservice"
	profileClient "github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
	"github.com/m04kA/TMP-LessonService/internal/service/calendar/models"
	"github.com/m04kA/TMP-LessonService/pkg/ptr"
	"github.com/m04kA/TMP-LessonService/pkg/txmanager"
	"github.com/m04kA/TMP-LessonService/pkg/types"
)

// Service сервис для управления календарём тутора:
// еженедельные окна доступности и разовые недоступности
type Service struct {
	availabilityRepo AvailabilityRepository
	exceptionRepo    ExceptionRepository
	bookingRepo      BookingRepository
	profileClient    ProfileServiceClient
	notifyClient     NotifyServiceClient
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	availabilityRepo AvailabilityRepository,
	exceptionRepo ExceptionRepository,
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		exceptionRepo:    exceptionRepo,
		bookingRepo:      bookingRepo,
		profileClient:    profileClient,
		notifyClient:     notifyClient,
		txManager:        txManager,
		logger:           logger,
	}
}

// AddAvailability добавляет еженедельное окно доступности.
// Окно не должно пересекаться с существующими окнами того же дня недели.
func (s *Service) AddAvailability(ctx context.Context, req *models.AddAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("AddAvailability: user=%d, dayOfWeek=%d, %s-%s",
		req.UserID, req.DayOfWeek, req.StartTime, req.EndTime)

	tutor, err := s.resolveTutor(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek < domain.MinDayOfWeek || req.DayOfWeek > domain.MaxDayOfWeek {
		s.logger.Warn("AddAvailability: invalid dayOfWeek=%d", req.DayOfWeek)
		return nil, fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		s.logger.Warn("AddAvailability: invalid startTime=%s: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: invalid startTime", ErrInvalidInput)
	}

	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		s.logger.Warn("AddAvailability: invalid endTime=%s: %v", req.EndTime, err)
		return nil, fmt.Errorf("%w: invalid endTime", ErrInvalidInput)
	}

	if !startTime.IsBefore(endTime) {
		s.logger.Warn("AddAvailability: startTime=%s is not before endTime=%s", startTime, endTime)
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidRange)
	}

	// Проверяем пересечение с существующими окнами того же дня
	existing, err := s.availabilityRepo.GetByTutorAndWeekday(ctx, tutor.ID, req.DayOfWeek)
	if err != nil {
		s.logger.Error("AddAvailability: repository error for tutor=%d: %v", tutor.ID, err)
		return nil, fmt.Errorf("%w: AddAvailability - repository error: %v", ErrInternal, err)
	}

	for _, w := range existing {
		if w.Overlaps(startTime, endTime) {
			s.logger.Warn("AddAvailability: window %s-%s overlaps existing id=%d (%s-%s)",
				startTime, endTime, w.ID, w.StartTime, w.EndTime)
			return nil, ErrWindowOverlap
		}
	}

	created, err := s.availabilityRepo.Create(ctx, &domain.RecurringAvailability{
		TutorID:   tutor.ID,
		DayOfWeek: req.DayOfWeek,
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		s.logger.Error("AddAvailability: failed to create window for tutor=%d: %v", tutor.ID, err)
		return nil, fmt.Errorf("%w: AddAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddAvailability: successfully created window id=%d for tutor=%d", created.ID, tutor.ID)
	return models.FromDomainAvailability(created), nil
}

// ListAvailability возвращает все окна доступности текущего тутора
func (s *Service) ListAvailability(ctx context.Context, userID int64) (*models.AvailabilityListResponse, error) {
	s.logger.Info("ListAvailability: user=%d", userID)

	tutor, err := s.resolveTutor(ctx, userID)
	if err != nil {
		return nil, err
	}

	windows, err := s.availabilityRepo.GetByTutorID(ctx, tutor.ID)
	if err != nil {
		s.logger.Error("ListAvailability: repository error for tutor=%d: %v", tutor.ID, err)
		return nil, fmt.Errorf("%w: ListAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAvailability: fetched %d windows for tutor=%d", len(windows), tutor.ID)
	return models.FromDomainAvailabilityList(windows), nil
}

// DeleteAvailability удаляет окно доступности текущего тутора.
// Уже созданные бронирования удаление окна не затрагивает.
func (s *Service) DeleteAvailability(ctx context.Context, userID, windowID int64) error {
	s.logger.Info("DeleteAvailability: user=%d, window=%d", userID, windowID)

	tutor, err := s.resolveTutor(ctx, userID)
	if err != nil {
		return err
	}

	window, err := s.availabilityRepo.GetByID(ctx, windowID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("DeleteAvailability: window id=%d not found", windowID)
			return ErrWindowNotFound
		}
		s.logger.Error("DeleteAvailability: repository error for window id=%d: %v", windowID, err)
		return fmt.Errorf("%w: DeleteAvailability - repository error: %v", ErrInternal, err)
	}

	if window.TutorID != tutor.ID {
		s.logger.Warn("DeleteAvailability: window id=%d belongs to tutor=%d, not tutor=%d",
			windowID, window.TutorID, tutor.ID)
		return ErrAccessDenied
	}

	if err := s.availabilityRepo.Delete(ctx, windowID); err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			return ErrWindowNotFound
		}
		s.logger.Error("DeleteAvailability: repository error for window id=%d: %v", windowID, err)
		return fmt.Errorf("%w: DeleteAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteAvailability: successfully deleted window id=%d", windowID)
	return nil
}

// AddUnavailability добавляет разовую недоступность и каскадом отменяет
// подтверждённые бронирования, пересекающие её интервал.
// Вставка недоступности и отмена бронирований выполняются в одной транзакции:
// либо применяется всё, либо ничего.
func (s *Service) AddUnavailability(ctx context.Context, req *models.AddUnavailabilityRequest) (*models.UnavailabilityResponse, error) {
	s.logger.Info("AddUnavailability: user=%d, %s - %s",
		req.UserID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))

	tutor, err := s.resolveTutor(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		s.logger.Warn("AddUnavailability: zero interval bounds from user=%d", req.UserID)
		return nil, fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}

	if !req.StartAt.Before(req.EndAt) {
		s.logger.Warn("AddUnavailability: startAt is not before endAt")
		return nil, fmt.Errorf("%w: startAt must be before endAt", ErrInvalidRange)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		s.logger.Warn("AddUnavailability: reason is too long (%d chars)", len(*req.Reason))
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	startAt := req.StartAt.UTC()
	endAt := req.EndAt.UTC()

	var (
		created   *domain.UnavailabilityException
		cancelled []*domain.Booking
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err = s.exceptionRepo.Create(txCtx, &domain.UnavailabilityException{
			TutorID: tutor.ID,
			StartAt: startAt,
			EndAt:   endAt,
			Reason:  req.Reason,
		})
		if err != nil {
			s.logger.Error("AddUnavailability: failed to create exception for tutor=%d: %v", tutor.ID, err)
			return fmt.Errorf("%w: AddUnavailability - repository error: %v", ErrInternal, err)
		}

		// Подтверждённые бронирования, пересекающие интервал (с блокировкой строк)
		intersecting, err := s.bookingRepo.GetByTutorWithFilter(txCtx, domain.TutorBookingsFilter{
			TutorID:       tutor.ID,
			IntersectFrom: &startAt,
			IntersectTo:   &endAt,
			Status:        ptr.Ptr(domain.StatusConfirmed),
			ForUpdate:     true,
		})
		if err != nil {
			s.logger.Error("AddUnavailability: failed to find intersecting bookings: %v", err)
			return fmt.Errorf("%w: AddUnavailability - repository error: %v", ErrInternal, err)
		}

		if len(intersecting) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(intersecting))
		for _, b := range intersecting {
			ids = append(ids, b.ID)
		}

		if err := s.bookingRepo.CancelByIDs(txCtx, ids, req.Reason); err != nil {
			s.logger.Error("AddUnavailability: failed to cancel %d bookings: %v", len(ids), err)
			return fmt.Errorf("%w: AddUnavailability - repository error: %v", ErrInternal, err)
		}

		cancelled = intersecting
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrBusy) {
			s.logger.Warn("AddUnavailability: transaction contention for tutor=%d: %v", tutor.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrServerBusy, err)
		}
		return nil, err
	}

	// Студенты отменённых занятий получают уведомления (best-effort)
	s.notifyCancelled(ctx, cancelled, req.Reason)

	s.logger.Info("AddUnavailability: created exception id=%d for tutor=%d, cancelled %d bookings",
		created.ID, tutor.ID, len(cancelled))

	return models.FromDomainException(created, len(cancelled)), nil
}

// ListUnavailability возвращает все недоступности текущего тутора
func (s *Service) ListUnavailability(ctx context.Context, userID int64) (*models.UnavailabilityListResponse, error) {
	s.logger.Info("ListUnavailability: user=%d", userID)

	tutor, err := s.resolveTutor(ctx, userID)
	if err != nil {
		return nil, err
	}

	exceptions, err := s.exceptionRepo.GetByTutorID(ctx, tutor.ID)
	if err != nil {
		s.logger.Error("ListUnavailability: repository error for tutor=%d: %v", tutor.ID, err)
		return nil, fmt.Errorf("%w: ListUnavailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListUnavailability: fetched %d exceptions for tutor=%d", len(exceptions), tutor.ID)
	return models.FromDomainExceptionList(exceptions), nil
}

// DeleteUnavailability удаляет недоступность текущего тутора.
// Отменённые каскадом бронирования не восстанавливаются.
func (s *Service) DeleteUnavailability(ctx context.Context, userID, exceptionID int64) error {
	s.logger.Info("DeleteUnavailability: user=%d, exception=%d", userID, exceptionID)

	tutor, err := s.resolveTutor(ctx, userID)
	if err != nil {
		return err
	}

	exception, err := s.exceptionRepo.GetByID(ctx, exceptionID)
	if err != nil {
		if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteUnavailability: exception id=%d not found", exceptionID)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteUnavailability: repository error for exception id=%d: %v", exceptionID, err)
		return fmt.Errorf("%w: DeleteUnavailability - repository error: %v", ErrInternal, err)
	}

	if exception.TutorID != tutor.ID {
		s.logger.Warn("DeleteUnavailability: exception id=%d belongs to tutor=%d, not tutor=%d",
			exceptionID, exception.TutorID, tutor.ID)
		return ErrAccessDenied
	}

	if err := s.exceptionRepo.Delete(ctx, exceptionID); err != nil {
		if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteUnavailability: repository error for exception id=%d: %v", exceptionID, err)
		return fmt.Errorf("%w: DeleteUnavailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteUnavailability: successfully deleted exception id=%d", exceptionID)
	return nil
}

// Вспомогательные методы

// resolveTutor получает профиль тутора по ID пользователя
func (s *Service) resolveTutor(ctx context.Context, userID int64) (*profileClient.Tutor, error) {
	tutor, err := s.profileClient.GetTutorByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, profileClient.ErrTutorNotFound) {
			s.logger.Warn("resolveTutor: user=%d has no tutor profile", userID)
			return nil, ErrProfileNotFound
		}
		s.logger.Error("resolveTutor: failed to get tutor profile for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to get tutor profile: %v", ErrInternal, err)
	}
	return tutor, nil
}

// notifyCancelled отправляет уведомление об отменённых бронированиях.
// Уведомления best-effort: ошибка логируется, но не влияет на результат.
func (s *Service) notifyCancelled(ctx context.Context, bookings []*domain.Booking, reason *string) {
	if s.notifyClient == nil || len(bookings) == 0 {
		return
	}

	event := &notifyservice.BookingsCancelledEvent{
		Reason:   reason,
		Bookings: make([]notifyservice.CancelledBooking, 0, len(bookings)),
	}

	for _, b := range bookings {
		event.Bookings = append(event.Bookings, notifyservice.CancelledBooking{
			BookingID: b.ID,
			StudentID: b.StudentID,
			TutorID:   b.TutorID,
			StartAt:   b.StartAt,
			EndAt:     b.EndAt,
		})
	}

	if err := s.notifyClient.NotifyBookingsCancelled(ctx, event); err != nil {
		s.logger.Error("notifyCancelled: failed to notify about %d cancelled bookings: %v",
			len(bookings), err)
	}
}
