package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/TMP-LessonService/internal/integrations/notifyservice"
	profileClient "github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
	"github.com/m04kA/TMP-LessonService/internal/service/bookings/models"
	"github.com/m04kA/TMP-LessonService/pkg/txmanager"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	profileClient ProfileServiceClient
	notifyClient  NotifyServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		profileClient: profileClient,
		notifyClient:  notifyClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// GetMyBookings получает бронирования текущего пользователя.
// Студент видит занятия своего профиля студента, тутор видит бронирования
// своего календаря.
func (s *Service) GetMyBookings(ctx context.Context, req *models.GetMyBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetMyBookings: fetching bookings for user=%d, role=%s", req.UserID, req.Role)

	if !req.Role.Valid() {
		s.logger.Warn("GetMyBookings: invalid role=%s for user=%d", req.Role, req.UserID)
		return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}

	var bookings []*domain.Booking

	switch req.Role {
	case domain.RoleStudent:
		student, err := s.profileClient.GetStudentByUser(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, profileClient.ErrStudentNotFound) {
				s.logger.Warn("GetMyBookings: user=%d has no student profile", req.UserID)
				return nil, ErrProfileNotFound
			}
			s.logger.Error("GetMyBookings: failed to get student profile for user=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: failed to get student profile: %v", ErrInternal, err)
		}

		bookings, err = s.bookingRepo.GetByStudentID(ctx, student.ID)
		if err != nil {
			s.logger.Error("GetMyBookings: repository error for student=%d: %v", student.ID, err)
			return nil, fmt.Errorf("%w: GetMyBookings - repository error: %v", ErrInternal, err)
		}

	case domain.RoleTutor:
		tutor, err := s.profileClient.GetTutorByUser(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, profileClient.ErrTutorNotFound) {
				s.logger.Warn("GetMyBookings: user=%d has no tutor profile", req.UserID)
				return nil, ErrProfileNotFound
			}
			s.logger.Error("GetMyBookings: failed to get tutor profile for user=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: failed to get tutor profile: %v", ErrInternal, err)
		}

		bookings, err = s.bookingRepo.GetByTutorWithFilter(ctx, domain.TutorBookingsFilter{
			TutorID: tutor.ID,
		})
		if err != nil {
			s.logger.Error("GetMyBookings: repository error for tutor=%d: %v", tutor.ID, err)
			return nil, fmt.Errorf("%w: GetMyBookings - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("GetMyBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет одно бронирование.
// Студент может отменить только своё занятие, тутор только занятие
// из своего календаря. Повторная отмена возвращает ErrCannotCancel.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d, role=%s", bookingID, req.UserID, req.Role)

	if err := validateCancelInput(req.Role, req.Reason); err != nil {
		s.logger.Warn("Cancel: validation failed for booking id=%d: %v", bookingID, err)
		return err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа до проверки статуса, чтобы чужой пользователь
	// не мог различать состояния чужого бронирования
	if err := s.checkOwnership(ctx, booking, req.UserID, req.Role); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.Reason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			// Конкурентная отмена успела раньше
			s.logger.Warn("Cancel: booking id=%d already cancelled concurrently", bookingID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Отмена тутором затрагивает студента, отправляем уведомление
	if req.Role == domain.RoleTutor {
		s.notifyCancelled(ctx, []*domain.Booking{booking}, req.Reason)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// CancelMany атомарно отменяет пакет бронирований.
// Если хотя бы одно бронирование не найдено, не принадлежит вызывающему
// или уже отменено, не отменяется ни одно.
func (s *Service) CancelMany(ctx context.Context, req *models.CancelManyBookingsRequest) error {
	s.logger.Info("CancelMany: cancelling %d bookings by user=%d, role=%s",
		len(req.BookingIDs), req.UserID, req.Role)

	if err := validateCancelInput(req.Role, req.Reason); err != nil {
		s.logger.Warn("CancelMany: validation failed: %v", err)
		return err
	}

	for _, id := range req.BookingIDs {
		if id <= 0 {
			s.logger.Warn("CancelMany: invalid booking id=%d from user=%d", id, req.UserID)
			return fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
		}
	}

	ids := uniqueIDs(req.BookingIDs)
	if len(ids) == 0 {
		s.logger.Warn("CancelMany: empty booking list from user=%d", req.UserID)
		return fmt.Errorf("%w: bookingIds must not be empty", ErrInvalidInput)
	}

	// Профиль вызывающего разрешается до транзакции,
	// внешние вызовы внутри неё не делаем
	ownerTutorID, ownerStudentID, err := s.resolveOwner(ctx, req.UserID, req.Role)
	if err != nil {
		return err
	}

	var cancelled []*domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		bookings, err := s.bookingRepo.GetByIDs(txCtx, ids, true)
		if err != nil {
			s.logger.Error("CancelMany: repository error: %v", err)
			return fmt.Errorf("%w: CancelMany - repository error: %v", ErrInternal, err)
		}

		if len(bookings) != len(ids) {
			s.logger.Warn("CancelMany: requested %d bookings, found %d", len(ids), len(bookings))
			return ErrBookingNotFound
		}

		for _, b := range bookings {
			if !s.owns(b, ownerTutorID, ownerStudentID, req.Role) {
				s.logger.Warn("CancelMany: access denied for user=%d to booking id=%d", req.UserID, b.ID)
				return ErrAccessDenied
			}
			if !b.CanBeCancelled() {
				s.logger.Warn("CancelMany: booking id=%d cannot be cancelled, status=%s", b.ID, b.Status)
				return ErrCannotCancel
			}
		}

		if err := s.bookingRepo.CancelByIDs(txCtx, ids, req.Reason); err != nil {
			s.logger.Error("CancelMany: repository error during cancellation: %v", err)
			return fmt.Errorf("%w: CancelMany - repository error: %v", ErrInternal, err)
		}

		cancelled = bookings
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrBusy) {
			s.logger.Warn("CancelMany: transaction contention for user=%d: %v", req.UserID, err)
			return fmt.Errorf("%w: %v", ErrServerBusy, err)
		}
		return err
	}

	// Пакетную отмену делает тутор, студенты получают уведомления
	if req.Role == domain.RoleTutor {
		s.notifyCancelled(ctx, cancelled, req.Reason)
	}

	s.logger.Info("CancelMany: successfully cancelled %d bookings by user=%d", len(ids), req.UserID)
	return nil
}

// Вспомогательные методы

// checkOwnership проверяет, что бронирование принадлежит вызывающему
func (s *Service) checkOwnership(ctx context.Context, booking *domain.Booking, userID int64, role domain.UserRole) error {
	tutorID, studentID, err := s.resolveOwner(ctx, userID, role)
	if err != nil {
		return err
	}

	if !s.owns(booking, tutorID, studentID, role) {
		return ErrAccessDenied
	}

	return nil
}

// resolveOwner получает ID профиля вызывающего для его роли
func (s *Service) resolveOwner(ctx context.Context, userID int64, role domain.UserRole) (tutorID, studentID int64, err error) {
	switch role {
	case domain.RoleTutor:
		tutor, err := s.profileClient.GetTutorByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, profileClient.ErrTutorNotFound) {
				s.logger.Warn("resolveOwner: user=%d has no tutor profile", userID)
				return 0, 0, ErrProfileNotFound
			}
			s.logger.Error("resolveOwner: failed to get tutor profile for user=%d: %v", userID, err)
			return 0, 0, fmt.Errorf("%w: failed to get tutor profile: %v", ErrInternal, err)
		}
		return tutor.ID, 0, nil

	case domain.RoleStudent:
		student, err := s.profileClient.GetStudentByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, profileClient.ErrStudentNotFound) {
				s.logger.Warn("resolveOwner: user=%d has no student profile", userID)
				return 0, 0, ErrProfileNotFound
			}
			s.logger.Error("resolveOwner: failed to get student profile for user=%d: %v", userID, err)
			return 0, 0, fmt.Errorf("%w: failed to get student profile: %v", ErrInternal, err)
		}
		return 0, student.ID, nil

	default:
		return 0, 0, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}
}

// owns проверяет принадлежность бронирования разрешённому профилю
func (s *Service) owns(b *domain.Booking, tutorID, studentID int64, role domain.UserRole) bool {
	switch role {
	case domain.RoleTutor:
		return b.TutorID == tutorID
	case domain.RoleStudent:
		return b.StudentID == studentID
	default:
		return false
	}
}

// notifyCancelled отправляет уведомление об отменённых бронированиях.
// Уведомления best-effort: ошибка логируется, но не откатывает отмену.
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

// validateCancelInput проверяет роль и длину причины отмены
func validateCancelInput(role domain.UserRole, reason *string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}
	if reason != nil && len(*reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}
	return nil
}

// uniqueIDs удаляет дубликаты, сохраняя порядок
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
