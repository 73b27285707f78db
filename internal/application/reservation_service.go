package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/room-scheduler/internal/recurrence"
	"github.com/example/room-scheduler/internal/rrule"
	"github.com/example/room-scheduler/internal/scheduler"
)

// ReservationRepository captures the persistence interactions needed by the
// service. Multi-row operations commit atomically or not at all.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	CreateSeries(ctx context.Context, anchor Reservation, children []Reservation) error
	UpdateReservation(ctx context.Context, reservation Reservation) error
	UpdateReservations(ctx context.Context, reservations []Reservation) error
	ReplaceSeries(ctx context.Context, anchor Reservation, children []Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListChildren(ctx context.Context, parentID string) ([]Reservation, error)
	ListConfirmedByDate(ctx context.Context, date time.Time) ([]Reservation, error)
	ListByDate(ctx context.Context, date time.Time) ([]Reservation, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Reservation, error)
	ListByStatus(ctx context.Context, status Status) ([]Reservation, error)
	SearchByOrganizerName(ctx context.Context, fragment string) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// OrganizerDirectory resolves organizers idempotently by email.
type OrganizerDirectory interface {
	ResolveOrCreate(ctx context.Context, organizer Organizer) (Organizer, error)
}

// EventPublisher receives the single notification emitted per logical
// operation. Publishing is fire and forget; a failing publisher never rolls
// back a committed booking.
type EventPublisher interface {
	Publish(ctx context.Context, notification Notification)
}

// ReservationService orchestrates rule parsing, occurrence generation,
// conflict validation and persistence for reservation operations.
type ReservationService struct {
	reservations ReservationRepository
	organizers   OrganizerDirectory
	publisher    EventPublisher
	hours        scheduler.WorkingHours
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger

	// writeMu serializes read-validate-write sequences. The conflict check
	// reads the confirmed windows before the insert commits, so two
	// concurrent bookings for the same slot could otherwise both pass
	// validation.
	writeMu sync.Mutex
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(reservations ReservationRepository, organizers OrganizerDirectory, publisher EventPublisher, hours scheduler.WorkingHours, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if hours.Start >= hours.End {
		hours = scheduler.DefaultWorkingHours()
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		organizers:   organizers,
		publisher:    publisher,
		hours:        hours,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// CreateReservation validates and persists a single booking, or expands a
// recurrence rule into a whole series committed in one transaction. Exactly
// one notification is emitted either way.
func (s *ReservationService) CreateReservation(ctx context.Context, params CreateReservationParams) (CreateReservationResult, error) {
	if s == nil || s.reservations == nil {
		return CreateReservationResult{}, fmt.Errorf("reservation repository not configured")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	input := params.Input
	log := serviceLogger(ctx, s.logger, "reservation", "create")

	vErr := &ValidationError{}
	validateReservationCore(input, vErr)
	if vErr.HasErrors() {
		return CreateReservationResult{}, vErr
	}

	organizer, err := s.resolveOrganizer(ctx, input)
	if err != nil {
		return CreateReservationResult{}, err
	}

	rule := rrule.Parse(input.RecurrenceRule)
	anchorDate := recurrence.AlignToMonthPosition(recurrence.DateOf(input.Date), rule)

	createdAt := s.now()
	anchor := Reservation{
		ID:               s.idGenerator(),
		Date:             anchorDate,
		Start:            input.Start,
		End:              input.End,
		Subject:          strings.TrimSpace(input.Subject),
		Organizer:        organizer,
		Status:           StatusConfirmed,
		ReservationType:  input.ReservationType,
		Equipment:        input.Equipment,
		Disposition:      input.Disposition,
		ParticipantCount: input.ParticipantCount,
		Department:       input.Department,
		RecurrenceRule:   strings.TrimSpace(input.RecurrenceRule),
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}

	if rule.IsZero() {
		if !params.SkipValidation {
			if err := s.validateSlot(ctx, anchor, nil); err != nil {
				log.Warn("reservation rejected", "error_kind", ErrorKind(err), "date", anchor.Date.Format("2006-01-02"))
				return CreateReservationResult{}, err
			}
		}
		if err := s.reservations.CreateReservation(ctx, anchor); err != nil {
			return CreateReservationResult{}, mapRepoError(err)
		}
		log.Info("reservation created", "reservation_id", anchor.ID, "date", anchor.Date.Format("2006-01-02"))
		s.publish(ctx, Notification{
			Reservation:       anchor,
			Action:            ActionCreated,
			EquipmentAffected: true,
		})
		return CreateReservationResult{Reservation: anchor}, nil
	}

	if !params.SkipValidation {
		if err := s.validateSlot(ctx, anchor, nil); err != nil {
			log.Warn("series anchor rejected", "error_kind", ErrorKind(err), "date", anchor.Date.Format("2006-01-02"))
			return CreateReservationResult{}, err
		}
	}

	occurrenceDates := recurrence.Generate(anchorDate, rule)

	children := make([]Reservation, 0, len(occurrenceDates)-1)
	for _, date := range occurrenceDates[1:] {
		child := anchor
		child.ID = s.idGenerator()
		child.ParentID = &anchor.ID
		child.Date = date
		child.RecurrenceRule = ""

		// A rejection on any occurrence aborts the whole series; nothing
		// partial is ever persisted.
		if !params.SkipValidation {
			if err := s.validateSlot(ctx, child, nil); err != nil {
				log.Warn("series occurrence rejected", "error_kind", ErrorKind(err), "date", date.Format("2006-01-02"))
				return CreateReservationResult{}, err
			}
		}
		children = append(children, child)
	}

	if err := s.reservations.CreateSeries(ctx, anchor, children); err != nil {
		return CreateReservationResult{}, mapRepoError(err)
	}

	bookedDates := make([]time.Time, 0, len(children)+1)
	bookedDates = append(bookedDates, anchor.Date)
	for _, child := range children {
		bookedDates = append(bookedDates, child.Date)
	}

	log.Info("series created",
		"reservation_id", anchor.ID,
		"occurrences", len(bookedDates))
	s.publish(ctx, Notification{
		Reservation:       anchor,
		Action:            ActionCreated,
		EquipmentAffected: true,
		SeriesScoped:      true,
		RecurrenceDetail:  recurrenceDetail(rule, bookedDates),
	})

	return CreateReservationResult{
		Reservation: anchor,
		Occurrences: children,
	}, nil
}

// UpdateReservation applies a change at the requested scope. Single and
// partial scope touch only the addressed occurrence; series scope either
// shifts every member when the recurrence pattern is unchanged or
// regenerates the series when it changed.
func (s *ReservationService) UpdateReservation(ctx context.Context, params UpdateReservationParams) (Reservation, error) {
	if s == nil || s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	addressed, err := s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		return Reservation{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	validateReservationCore(params.Input, vErr)
	if vErr.HasErrors() {
		return Reservation{}, vErr
	}

	organizer, err := s.resolveOrganizer(ctx, params.Input)
	if err != nil {
		return Reservation{}, err
	}

	if params.Scope == UpdateScopeSeries && (addressed.ParentID != nil || addressed.RecurrenceRule != "") {
		return s.updateSeries(ctx, addressed, organizer, params)
	}
	return s.updateSingle(ctx, addressed, organizer, params)
}

func (s *ReservationService) updateSingle(ctx context.Context, addressed Reservation, organizer *Organizer, params UpdateReservationParams) (Reservation, error) {
	log := serviceLogger(ctx, s.logger, "reservation", "update", "scope", string(params.Scope))

	updated := applyInput(addressed, params.Input, organizer)
	updated.UpdatedAt = s.now()

	if !params.SkipValidation {
		exclude := map[string]struct{}{addressed.ID: {}}
		if err := s.validateSlot(ctx, updated, exclude); err != nil {
			log.Warn("update rejected", "error_kind", ErrorKind(err), "reservation_id", addressed.ID)
			return Reservation{}, err
		}
	}

	if err := s.reservations.UpdateReservation(ctx, updated); err != nil {
		return Reservation{}, mapRepoError(err)
	}

	log.Info("reservation updated", "reservation_id", updated.ID)
	s.publish(ctx, Notification{
		Reservation:       updated,
		Action:            ActionModified,
		EquipmentAffected: slotOrEquipmentChanged(addressed, updated),
	})
	return updated, nil
}

func (s *ReservationService) updateSeries(ctx context.Context, addressed Reservation, organizer *Organizer, params UpdateReservationParams) (Reservation, error) {
	root, err := s.resolveRoot(ctx, addressed)
	if err != nil {
		return Reservation{}, err
	}

	oldRule := rrule.Parse(root.RecurrenceRule)
	newRuleText := strings.TrimSpace(params.Input.RecurrenceRule)
	if newRuleText == "" {
		newRuleText = root.RecurrenceRule
	}
	newRule := rrule.Parse(newRuleText)

	if rrule.PatternEquals(oldRule, newRule) {
		return s.shiftSeries(ctx, root, addressed, organizer, params, newRule)
	}
	return s.regenerateSeries(ctx, root, organizer, params, newRule, newRuleText)
}

// shiftSeries moves every member dated on or after the addressed occurrence
// by the day offset between the addressed date and the requested date, and
// applies the field changes to those same members. Members dated before the
// addressed occurrence are left untouched. Shifted members are validated
// against each other's vacated slots, so siblings moving together never
// conflict with themselves.
func (s *ReservationService) shiftSeries(ctx context.Context, root, addressed Reservation, organizer *Organizer, params UpdateReservationParams, rule rrule.Rule) (Reservation, error) {
	log := serviceLogger(ctx, s.logger, "reservation", "update", "scope", "series")

	members, err := s.seriesMembers(ctx, root)
	if err != nil {
		return Reservation{}, err
	}

	offset := 0
	if !params.Input.Date.IsZero() {
		offset = recurrence.DaysBetween(addressed.Date, params.Input.Date)
	}
	pivot := recurrence.DateOf(addressed.Date)

	exclude := make(map[string]struct{}, len(members))
	for _, member := range members {
		exclude[member.ID] = struct{}{}
	}

	updatedAt := s.now()
	finalRoot := root
	updated := make([]Reservation, 0, len(members))
	allDates := make([]time.Time, 0, len(members))
	for _, member := range members {
		if recurrence.DateOf(member.Date).Before(pivot) {
			allDates = append(allDates, member.Date)
			continue
		}

		next := applyInput(member, params.Input, organizer)
		next.Date = member.Date
		if offset != 0 {
			next.Date = recurrence.DateOf(member.Date).AddDate(0, 0, offset)
		}
		next.UpdatedAt = updatedAt

		if !params.SkipValidation && next.Status == StatusConfirmed {
			if err := s.validateSlot(ctx, next, exclude); err != nil {
				log.Warn("series shift rejected", "error_kind", ErrorKind(err), "reservation_id", member.ID, "date", next.Date.Format("2006-01-02"))
				return Reservation{}, err
			}
		}
		if next.ID == root.ID {
			finalRoot = next
		}
		updated = append(updated, next)
		allDates = append(allDates, next.Date)
	}

	if err := s.reservations.UpdateReservations(ctx, updated); err != nil {
		return Reservation{}, mapRepoError(err)
	}

	log.Info("series shifted", "reservation_id", finalRoot.ID, "members", len(updated), "offset_days", offset)
	s.publish(ctx, Notification{
		Reservation:       finalRoot,
		Action:            ActionModified,
		EquipmentAffected: slotOrEquipmentChanged(root, finalRoot),
		SeriesScoped:      true,
		RecurrenceDetail:  recurrenceDetail(rule, allDates),
	})
	return finalRoot, nil
}

// regenerateSeries discards the current occurrence set and expands the new
// rule from scratch, swapping the children atomically. Occurrence rows are
// replaced, not edited, because a changed pattern invalidates every date.
func (s *ReservationService) regenerateSeries(ctx context.Context, root Reservation, organizer *Organizer, params UpdateReservationParams, rule rrule.Rule, ruleText string) (Reservation, error) {
	log := serviceLogger(ctx, s.logger, "reservation", "update", "scope", "series")

	members, err := s.seriesMembers(ctx, root)
	if err != nil {
		return Reservation{}, err
	}
	exclude := make(map[string]struct{}, len(members))
	for _, member := range members {
		exclude[member.ID] = struct{}{}
	}

	anchorDate := recurrence.DateOf(root.Date)
	if !params.Input.Date.IsZero() {
		anchorDate = recurrence.DateOf(params.Input.Date)
	}
	anchorDate = recurrence.AlignToMonthPosition(anchorDate, rule)

	anchor := applyInput(root, params.Input, organizer)
	anchor.Date = anchorDate
	anchor.RecurrenceRule = ruleText
	anchor.UpdatedAt = s.now()

	if !params.SkipValidation {
		if err := s.validateSlot(ctx, anchor, exclude); err != nil {
			log.Warn("series anchor rejected", "error_kind", ErrorKind(err), "reservation_id", anchor.ID, "date", anchor.Date.Format("2006-01-02"))
			return Reservation{}, err
		}
	}

	occurrenceDates := recurrence.Generate(anchorDate, rule)

	children := make([]Reservation, 0, len(occurrenceDates)-1)
	for _, date := range occurrenceDates[1:] {
		child := anchor
		child.ID = s.idGenerator()
		child.ParentID = &anchor.ID
		child.Date = date
		child.RecurrenceRule = ""
		child.CreatedAt = anchor.UpdatedAt

		if !params.SkipValidation {
			if err := s.validateSlot(ctx, child, exclude); err != nil {
				log.Warn("series occurrence rejected", "error_kind", ErrorKind(err), "date", date.Format("2006-01-02"))
				return Reservation{}, err
			}
		}
		children = append(children, child)
	}

	if err := s.reservations.ReplaceSeries(ctx, anchor, children); err != nil {
		return Reservation{}, mapRepoError(err)
	}

	bookedDates := make([]time.Time, 0, len(children)+1)
	bookedDates = append(bookedDates, anchor.Date)
	for _, child := range children {
		bookedDates = append(bookedDates, child.Date)
	}

	log.Info("series regenerated", "reservation_id", anchor.ID, "occurrences", len(bookedDates))
	s.publish(ctx, Notification{
		Reservation:       anchor,
		Action:            ActionModified,
		EquipmentAffected: true,
		SeriesScoped:      true,
		RecurrenceDetail:  recurrenceDetail(rule, bookedDates),
	})
	return anchor, nil
}

// CancelReservation cancels exactly one reservation. Cancelling an anchor
// does not touch its occurrences; use CancelSeries for that.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (Reservation, error) {
	if s == nil || s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	log := serviceLogger(ctx, s.logger, "reservation", "cancel")

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapRepoError(err)
	}
	if existing.Status == StatusCancelled {
		return existing, ErrAlreadyCancelled
	}

	existing.Status = StatusCancelled
	existing.UpdatedAt = s.now()
	if err := s.reservations.UpdateReservation(ctx, existing); err != nil {
		return Reservation{}, mapRepoError(err)
	}

	log.Info("reservation cancelled", "reservation_id", existing.ID)
	s.publish(ctx, Notification{
		Reservation:       existing,
		Action:            ActionCancelled,
		EquipmentAffected: true,
	})
	return existing, nil
}

// CancelSeries cancels every still-confirmed member of the series containing
// the given reservation, in one transaction and with one notification.
func (s *ReservationService) CancelSeries(ctx context.Context, id string) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	log := serviceLogger(ctx, s.logger, "reservation", "cancel_series")

	addressed, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	root, err := s.resolveRoot(ctx, addressed)
	if err != nil {
		return nil, err
	}
	members, err := s.seriesMembers(ctx, root)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now()
	cancelled := make([]Reservation, 0, len(members))
	for _, member := range members {
		if member.Status != StatusConfirmed {
			continue
		}
		member.Status = StatusCancelled
		member.UpdatedAt = updatedAt
		cancelled = append(cancelled, member)
	}
	if len(cancelled) == 0 {
		return nil, ErrAlreadyCancelled
	}

	if err := s.reservations.UpdateReservations(ctx, cancelled); err != nil {
		return nil, mapRepoError(err)
	}

	log.Info("series cancelled", "reservation_id", root.ID, "members", len(cancelled))
	// The notification always names the series root, even when the root was
	// cancelled earlier and only children changed in this call.
	notified := root
	for _, member := range cancelled {
		if member.ID == root.ID {
			notified = member
		}
	}
	s.publish(ctx, Notification{
		Reservation:       notified,
		Action:            ActionCancelled,
		EquipmentAffected: true,
		SeriesScoped:      true,
		RecurrenceDetail:  renderOccurrenceTable(memberDates(cancelled)),
	})
	return cancelled, nil
}

// DeleteReservation hard-removes one reservation row. It never cascades and
// emits no notification; cancellation is the audited path, deletion is the
// administrative one.
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	if s == nil || s.reservations == nil {
		return fmt.Errorf("reservation repository not configured")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	log := serviceLogger(ctx, s.logger, "reservation", "delete")

	if err := s.reservations.DeleteReservation(ctx, id); err != nil {
		return mapRepoError(err)
	}
	log.Info("reservation deleted", "reservation_id", id)
	return nil
}

// GetReservation retrieves one reservation by id.
func (s *ReservationService) GetReservation(ctx context.Context, id string) (Reservation, error) {
	if s == nil || s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}
	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapRepoError(err)
	}
	return reservation, nil
}

// ListReservationsByDate returns every reservation on a calendar date.
func (s *ReservationService) ListReservationsByDate(ctx context.Context, date time.Time) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}
	reservations, err := s.reservations.ListByDate(ctx, recurrence.DateOf(date))
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sortReservations(reservations), nil
}

// ListReservationsByRange returns reservations dated within [from, to].
func (s *ReservationService) ListReservationsByRange(ctx context.Context, from, to time.Time) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}
	from, to = recurrence.DateOf(from), recurrence.DateOf(to)
	if to.Before(from) {
		vErr := &ValidationError{}
		vErr.add("range", "from must not be after to")
		return nil, vErr
	}
	reservations, err := s.reservations.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sortReservations(reservations), nil
}

// ListReservationsByStatus returns reservations in the given lifecycle state.
func (s *ReservationService) ListReservationsByStatus(ctx context.Context, status Status) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}
	reservations, err := s.reservations.ListByStatus(ctx, status)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sortReservations(reservations), nil
}

// SearchReservationsByOrganizer matches reservations whose organizer name
// contains the fragment.
func (s *ReservationService) SearchReservationsByOrganizer(ctx context.Context, fragment string) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		vErr := &ValidationError{}
		vErr.add("organizer", "search fragment is required")
		return nil, vErr
	}
	reservations, err := s.reservations.SearchByOrganizerName(ctx, fragment)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sortReservations(reservations), nil
}

// validateSlot checks the candidate against working hours and the confirmed
// bookings already on its date.
func (s *ReservationService) validateSlot(ctx context.Context, candidate Reservation, exclude map[string]struct{}) error {
	existing, err := s.reservations.ListConfirmedByDate(ctx, candidate.Date)
	if err != nil {
		return mapRepoError(err)
	}

	windows := make([]scheduler.Window, 0, len(existing))
	for _, reservation := range existing {
		windows = append(windows, toWindow(reservation))
	}
	return scheduler.Validate(s.hours, toWindow(candidate), windows, exclude)
}

func (s *ReservationService) resolveOrganizer(ctx context.Context, input ReservationInput) (*Organizer, error) {
	email := strings.TrimSpace(input.OrganizerEmail)
	if email == "" || s.organizers == nil {
		return nil, nil
	}
	organizer, err := s.organizers.ResolveOrCreate(ctx, Organizer{
		ID:    s.idGenerator(),
		Name:  strings.TrimSpace(input.OrganizerName),
		Email: email,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &organizer, nil
}

// resolveRoot walks parent references up to the series anchor.
func (s *ReservationService) resolveRoot(ctx context.Context, reservation Reservation) (Reservation, error) {
	for reservation.ParentID != nil {
		parent, err := s.reservations.GetReservation(ctx, *reservation.ParentID)
		if err != nil {
			return Reservation{}, mapRepoError(err)
		}
		reservation = parent
	}
	return reservation, nil
}

// seriesMembers returns the root followed by its children in date order.
func (s *ReservationService) seriesMembers(ctx context.Context, root Reservation) ([]Reservation, error) {
	children, err := s.reservations.ListChildren(ctx, root.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	members := make([]Reservation, 0, len(children)+1)
	members = append(members, root)
	members = append(members, children...)
	sort.SliceStable(members[1:], func(i, j int) bool {
		return members[i+1].Date.Before(members[j+1].Date)
	})
	return members, nil
}

func (s *ReservationService) publish(ctx context.Context, notification Notification) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, notification)
}

func applyInput(base Reservation, input ReservationInput, organizer *Organizer) Reservation {
	updated := base
	updated.Start = input.Start
	updated.End = input.End
	updated.Subject = strings.TrimSpace(input.Subject)
	updated.ReservationType = input.ReservationType
	updated.Equipment = input.Equipment
	updated.Disposition = input.Disposition
	updated.ParticipantCount = input.ParticipantCount
	updated.Department = input.Department
	if organizer != nil {
		updated.Organizer = organizer
	}
	if !input.Date.IsZero() {
		updated.Date = recurrence.DateOf(input.Date)
	}
	return updated
}

func validateReservationCore(input ReservationInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if !input.Start.Before(input.End) {
		vErr.add("time", "start must be before end")
	}
	if input.ParticipantCount < 0 {
		vErr.add("participant_count", "must not be negative")
	}
}

func slotOrEquipmentChanged(before, after Reservation) bool {
	return !before.Date.Equal(after.Date) ||
		before.Start != after.Start ||
		before.End != after.End ||
		before.Equipment != after.Equipment
}

func toWindow(reservation Reservation) scheduler.Window {
	return scheduler.Window{
		ID:        reservation.ID,
		Start:     reservation.Start,
		End:       reservation.End,
		Confirmed: reservation.Status == StatusConfirmed,
	}
}

func memberDates(members []Reservation) []time.Time {
	dates := make([]time.Time, 0, len(members))
	for _, member := range members {
		dates = append(dates, member.Date)
	}
	return dates
}

func sortReservations(reservations []Reservation) []Reservation {
	ordered := make([]Reservation, len(reservations))
	copy(ordered, reservations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date.Equal(ordered[j].Date) {
			if ordered[i].Start == ordered[j].Start {
				return ordered[i].ID < ordered[j].ID
			}
			return ordered[i].Start.Before(ordered[j].Start)
		}
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}

func recurrenceDetail(rule rrule.Rule, dates []time.Time) string {
	return rrule.Describe(rule) + renderOccurrenceTable(dates)
}

// renderOccurrenceTable lists booked dates with their weekday, the table
// appended to series notifications.
func renderOccurrenceTable(dates []time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-15s %-10s\n", "Date", "Weekday")
	for _, date := range dates {
		fmt.Fprintf(&b, "%-15s %-10s\n", date.Format("2006-01-02"), date.Weekday())
	}
	return b.String()
}
