package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/server/storage"
	"courtbook/pkg/models"
	"courtbook/pkg/mq"
)

// BookingService applies the booking rules and drives the store. The
// validator's checks are advisory; the store's uniqueness constraint is
// the authoritative guard against double booking.
type BookingService struct {
	bookings *storage.BookingRepository
	courts   *storage.CourtRepository
	audit    *AuditService
	email    *EmailService
	seclog   *SecurityLog
	events   *mq.Publisher

	loc *time.Location
	now func() time.Time
}

func NewBookingService(
	bookings *storage.BookingRepository,
	courts *storage.CourtRepository,
	audit *AuditService,
	email *EmailService,
	seclog *SecurityLog,
	events *mq.Publisher,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		courts:   courts,
		audit:    audit,
		email:    email,
		seclog:   seclog,
		events:   events,
		loc:      time.Local,
		now:      time.Now,
	}
}

// SelectableCourts returns the courts a user may pick for a sport:
// available courts matching the sport case-insensitively. When editing
// it also includes the court already assigned to the booking, so an
// in-place edit is never locked out by a later availability change.
func (s *BookingService) SelectableCourts(ctx context.Context, sport string, current *models.Booking) ([]models.Court, error) {
	courts, err := s.courts.ListSelectable(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}

	if current != nil {
		found := false
		for _, c := range courts {
			if c.ID == current.CourtID {
				found = true
				break
			}
		}
		if !found {
			c, err := s.courts.GetByID(ctx, current.CourtID)
			if err == nil {
				courts = append(courts, *c)
			} else if !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("load current court: %w", err)
			}
		}
	}
	return courts, nil
}

// validate applies the booking rules in order. existing is nil for a
// new booking. It returns the resolved court on success so callers can
// reuse it for confirmation mail.
func (s *BookingService) validate(ctx context.Context, sport string, req models.BookingRequest, existing *models.Booking) (*models.Court, error) {
	fields := ValidationErrors{}

	courtID, err := uuid.Parse(req.CourtID)
	if err != nil {
		fields["court_id"] = "Select a valid court."
	}
	if !models.IsSlotValue(req.BookingTime) {
		fields["booking_time"] = "Select a valid time slot."
	}

	date, err := time.ParseInLocation(models.DateLayout, req.BookingDate, s.loc)
	if err != nil {
		fields["booking_date"] = "Enter a valid date (YYYY-MM-DD)."
	}
	if len(fields) > 0 {
		return nil, fields
	}

	// Past-date rule: the booking date must be today or later.
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if date.Before(today) {
		return nil, ValidationErrors{"booking_date": "Booking date cannot be in the past."}
	}

	// Court scope rule.
	selectable, err := s.SelectableCourts(ctx, sport, existing)
	if err != nil {
		return nil, err
	}
	var court *models.Court
	for i := range selectable {
		if selectable[i].ID == courtID {
			court = &selectable[i]
			break
		}
	}
	if court == nil {
		return nil, ValidationErrors{"court_id": "Select a valid court."}
	}

	// Unchanged-edit exemption: saving an edit that keeps the same
	// (court, date, time) must not re-trigger the time-based rules as
	// the clock advances.
	if existing != nil &&
		existing.CourtID == courtID &&
		existing.BookingDate == req.BookingDate &&
		existing.BookingTime == req.BookingTime {
		return court, nil
	}

	// Past-datetime rule: the slot's start combined with the date must
	// be in the future. The stored slot may be a bare start time or a
	// start–end range; an unparsable value is a validation error.
	start, err := models.CombineDateSlot(req.BookingDate, req.BookingTime, s.loc)
	if err != nil {
		return nil, ValidationErrors{"booking_time": "Invalid booking time format."}
	}
	if !start.After(s.now().In(s.loc)) {
		return nil, ValidationErrors{"booking_time": "You cannot create a booking for a past date or time."}
	}

	// Double-booking rule (advisory; the store constraint decides races).
	exclude := uuid.Nil
	if existing != nil {
		exclude = existing.ID
	}
	taken, err := s.bookings.SlotTaken(ctx, courtID, req.BookingDate, req.BookingTime, exclude)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return nil, ValidationErrors{"booking_time": "This time slot is already booked."}
	}

	return court, nil
}

// Create validates and persists a new booking for the user.
func (s *BookingService) Create(ctx context.Context, user *models.User, sport string, req models.BookingRequest, ip string) (*models.Booking, error) {
	court, err := s.validate(ctx, sport, req, nil)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		UserID:      user.ID,
		CourtID:     court.ID,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Race lost on the uniqueness constraint; same user-facing
			// message as the advisory check.
			return nil, ValidationErrors{"booking_time": "This time slot is already booked."}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.seclog.Eventf("Booking CREATED | user=%s | court=%s | date=%s | time=%s",
		user.Username, court.Name, b.BookingDate, b.BookingTime)
	s.audit.Record(ctx, user.ID, models.ActionBookingCreate, ip)
	s.notifyCreated(ctx, user, court, b)
	return b, nil
}

// Update validates and persists changes to an owned booking. The sport
// context is derived from the booking's current court, as the original
// edit flow does.
func (s *BookingService) Update(ctx context.Context, user *models.User, id uuid.UUID, req models.BookingRequest, ip string) (*models.Booking, error) {
	existing, err := s.bookings.GetForUser(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	sport := ""
	if current, err := s.courts.GetByID(ctx, existing.CourtID); err == nil {
		sport = current.SportType
	}

	court, err := s.validate(ctx, sport, req, existing)
	if err != nil {
		return nil, err
	}

	existing.CourtID = court.ID
	existing.BookingDate = req.BookingDate
	existing.BookingTime = req.BookingTime
	if err := s.bookings.Update(ctx, existing); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ValidationErrors{"booking_time": "This time slot is already booked."}
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.seclog.Eventf("Booking UPDATED | user=%s | booking_id=%s", user.Username, existing.ID)
	s.audit.Record(ctx, user.ID, models.ActionBookingUpdate, ip)
	s.publish(ctx, "booking.updated", existing)
	return existing, nil
}

// Delete removes an owned booking.
func (s *BookingService) Delete(ctx context.Context, user *models.User, id uuid.UUID, ip string) error {
	b, err := s.bookings.GetForUser(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if err := s.bookings.DeleteForUser(ctx, id, user.ID); err != nil {
		return err
	}

	s.seclog.Eventf("Booking DELETED | user=%s | booking_id=%s", user.Username, b.ID)
	s.audit.Record(ctx, user.ID, models.ActionBookingDelete, ip)
	s.publish(ctx, "booking.cancelled", b)
	return nil
}

// ListForUser returns the user's bookings with court details.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.BookingWithCourt, error) {
	return s.bookings.ListForUser(ctx, userID)
}

// GetOwned fetches a booking scoped to its owner.
func (s *BookingService) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetForUser(ctx, id, userID)
}

func (s *BookingService) notifyCreated(ctx context.Context, user *models.User, court *models.Court, b *models.Booking) {
	if s.email != nil {
		if err := s.email.SendBookingConfirmation(user.Email, court.Name, b.BookingDate, models.SlotLabel(b.BookingTime)); err != nil {
			slog.Error("booking confirmation email failed", "booking_id", b.ID, "error", err)
		}
	}
	s.publish(ctx, "booking.created", b)
}

func (s *BookingService) publish(ctx context.Context, key string, b *models.Booking) {
	if err := s.events.PublishJSON(ctx, key, map[string]any{
		"booking_id": b.ID.String(),
		"user_id":    b.UserID.String(),
		"court_id":   b.CourtID.String(),
		"date":       b.BookingDate,
		"time":       strings.TrimSpace(b.BookingTime),
	}); err != nil {
		slog.Error("event publish failed", "key", key, "error", err)
	}
}

// SetClock overrides the time source. Tests only.
func (s *BookingService) SetClock(now func() time.Time) { s.now = now }

// SetLocation overrides the application time zone.
func (s *BookingService) SetLocation(loc *time.Location) { s.loc = loc }
