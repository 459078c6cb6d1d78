package profileservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с ProfileService
// (профили туторов/студентов, предметы — внешний сервис платформы)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetTutor получает профиль тутора по ID профиля
func (c *Client) GetTutor(ctx context.Context, tutorID int64) (*Tutor, error) {
	url := fmt.Sprintf("%s/internal/tutors/%d", c.baseURL, tutorID)

	var tutor Tutor
	if err := c.getJSON(ctx, url, &tutor, ErrTutorNotFound); err != nil {
		return nil, err
	}
	return &tutor, nil
}

// GetTutorByUser получает профиль тутора по ID пользователя платформы
func (c *Client) GetTutorByUser(ctx context.Context, userID int64) (*Tutor, error) {
	url := fmt.Sprintf("%s/internal/users/%d/tutor-profile", c.baseURL, userID)

	var tutor Tutor
	if err := c.getJSON(ctx, url, &tutor, ErrTutorNotFound); err != nil {
		return nil, err
	}
	return &tutor, nil
}

// GetStudent получает профиль студента по ID профиля
func (c *Client) GetStudent(ctx context.Context, studentID int64) (*Student, error) {
	url := fmt.Sprintf("%s/internal/students/%d", c.baseURL, studentID)

	var student Student
	if err := c.getJSON(ctx, url, &student, ErrStudentNotFound); err != nil {
		return nil, err
	}
	return &student, nil
}

// GetStudentByUser получает профиль студента по ID пользователя платформы
func (c *Client) GetStudentByUser(ctx context.Context, userID int64) (*Student, error) {
	url := fmt.Sprintf("%s/internal/users/%d/student-profile", c.baseURL, userID)

	var student Student
	if err := c.getJSON(ctx, url, &student, ErrStudentNotFound); err != nil {
		return nil, err
	}
	return &student, nil
}

// GetTutorSubject получает запись TutorSubject: предмет, который тутор ведёт.
// 404 означает, что тутор не предлагает этот предмет.
func (c *Client) GetTutorSubject(ctx context.Context, tutorID, subjectID int64) (*Subject, error) {
	url := fmt.Sprintf("%s/internal/tutors/%d/subjects/%d", c.baseURL, tutorID, subjectID)

	var subject Subject
	if err := c.getJSON(ctx, url, &subject, ErrSubjectNotOffered); err != nil {
		return nil, err
	}
	return &subject, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ.
// notFoundErr возвращается для статуса 404.
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
