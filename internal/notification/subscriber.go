package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/google/uuid"
)

// Directory looks up who should hear about a leave.
type Directory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	ListByRole(ctx context.Context, role internal.Role) ([]*user.User, error)
}

type Queue interface {
	Enqueue(msg Message) bool
}

type Bus interface {
	Subscribe(eventType string, handler events.Handler)
}

// Subscriber turns leave events into messages for approvers and employees.
type Subscriber struct {
	queue     Queue
	directory Directory
	logger    *slog.Logger
	now       func() time.Time
}

func NewSubscriber(queue Queue, directory Directory, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		queue:     queue,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Subscriber) Register(bus Bus) {
	bus.Subscribe(events.EventTypeLeaveSubmitted, s.HandleSubmitted)
	bus.Subscribe(events.EventTypeLeaveStatusChanged, s.HandleStatusChanged)
}

// reviewers returns the roles expected to act first on a new request.
func reviewers(kind string) []internal.Role {
	if kind == string(leave.KindShort) {
		return []internal.Role{internal.RoleSupervisor, internal.RoleHRDirector}
	}
	return []internal.Role{internal.RoleSectionalHead}
}

// nextReviewer returns the role whose step follows stage, if any.
func nextReviewer(stage string) (internal.Role, bool) {
	switch leave.Stage(stage) {
	case leave.StageRecommendedBySectional:
		return internal.RoleDepartmentalHead, true
	case leave.StageRecommendedByDepartmental:
		return internal.RoleHRDirector, true
	}
	return "", false
}

func (s *Subscriber) HandleSubmitted(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.LeaveSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e, e.EventType())
	}

	subject := fmt.Sprintf("New %s request", evt.LeaveType)
	body := fmt.Sprintf("%s requested %d day(s) of %s from %s to %s.",
		evt.EmployeeName, evt.DaysApplied, evt.LeaveType,
		evt.StartDate.Format("2006-01-02"), evt.EndDate.Format("2006-01-02"))

	return s.notifyRoles(ctx, evt.EventType(), evt.LeaveID, evt.EmployeeID, subject, body, evt.Data, reviewers(evt.LeaveType)...)
}

func (s *Subscriber) HandleStatusChanged(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.LeaveStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e, e.EventType())
	}

	employee, err := s.directory.GetByID(ctx, evt.EmployeeID)
	if err != nil {
		s.logger.Warn("leave owner not found for notification", "leave_id", evt.LeaveID, "employee_id", evt.EmployeeID, "error", err)
	} else {
		subject := fmt.Sprintf("Your %s request is %s", evt.LeaveType, evt.Status)
		body := fmt.Sprintf("Your %s request moved from %s to %s (stage %s).",
			evt.LeaveType, evt.PreviousStatus, evt.Status, evt.Stage)
		s.enqueue(s.message(evt.EventType(), evt.LeaveID, employee, subject, body, evt.Data))
	}

	if evt.Status != string(leave.StatusPending) {
		return nil
	}
	role, ok := nextReviewer(evt.Stage)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("%s request awaiting your review", evt.LeaveType)
	body := fmt.Sprintf("A %s request has reached stage %s and needs a %s decision.", evt.LeaveType, evt.Stage, role)
	return s.notifyRoles(ctx, evt.EventType(), evt.LeaveID, evt.EmployeeID, subject, body, evt.Data, role)
}

func (s *Subscriber) notifyRoles(ctx context.Context, eventType, leaveID, skipID, subject, body string, data map[string]interface{}, roles ...internal.Role) error {
	for _, role := range roles {
		users, err := s.directory.ListByRole(ctx, role)
		if err != nil {
			return fmt.Errorf("list %s recipients: %w", role, err)
		}
		if len(users) == 0 {
			s.logger.Info("no recipients for role", "role", role, "leave_id", leaveID)
		}
		for _, u := range users {
			if u.ID == skipID {
				continue
			}
			s.enqueue(s.message(eventType, leaveID, u, subject, body, data))
		}
	}
	return nil
}

func (s *Subscriber) message(eventType, leaveID string, to *user.User, subject, body string, data map[string]interface{}) Message {
	return Message{
		ID:          uuid.NewString(),
		EventType:   eventType,
		LeaveID:     leaveID,
		RecipientID: to.ID,
		Email:       to.Email,
		Subject:     subject,
		Body:        body,
		Data:        data,
		CreatedAt:   s.now().UTC(),
	}
}

func (s *Subscriber) enqueue(msg Message) {
	if !s.queue.Enqueue(msg) {
		s.logger.Warn("notification not queued", "message_id", msg.ID, "recipient_id", msg.RecipientID)
	}
}
