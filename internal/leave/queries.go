package leave

import (
	"context"
	"fmt"

	"github.com/frahmantamala/leave-management/internal"
)

func parseKindFilter(raw string, required bool) (Kind, error) {
	if raw == "" {
		if required {
			return "", internal.NewValidationFieldError("leaveType", "leaveType is required", internal.ErrCodeInvalidLeaveType)
		}
		return "", nil
	}
	kind, ok := ParseKind(raw)
	if !ok {
		return "", internal.NewValidationFieldError("leaveType",
			fmt.Sprintf("leaveType must be %q or %q", KindShort, KindAnnual),
			internal.ErrCodeInvalidLeaveType)
	}
	return kind, nil
}

// ListMine returns actor's own leaves, newest first. Pending leaves whose start
// date has already passed are rejected on the way out.
func (s *Service) ListMine(ctx context.Context, actor internal.Identity, leaveType string) ([]*Record, error) {
	kind, err := parseKindFilter(leaveType, false)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByEmployee(ctx, actor.ID, kind)
	if err != nil {
		return nil, s.storageErr("list employee leaves", err, "employee_id", actor.ID)
	}

	now := s.now()
	system := internal.Identity{ID: "system", Role: internal.RoleAdmin}
	for i, rec := range records {
		if !rec.Expire(now) {
			continue
		}
		if err := s.repo.Update(ctx, rec); err != nil {
			s.logger.Warn("failed to expire overdue leave", "leave_id", rec.ID, "error", err)
			if fresh, getErr := s.repo.GetByID(ctx, rec.ID); getErr == nil {
				records[i] = fresh
			}
			continue
		}
		s.logger.Info("overdue leave expired", "leave_id", rec.ID, "employee_id", rec.EmployeeID)
		s.publishStatusChanged(ctx, system, rec, StatusPending)
	}

	return records, nil
}

// awaits reports whether rec is waiting on a step role is responsible for.
func awaits(role internal.Role, rec *Record) bool {
	if rec.Status != StatusPending {
		return false
	}
	switch role {
	case internal.RoleAdmin:
		return true
	case internal.RoleSupervisor:
		return rec.IsShort() && rec.StepStatus(internal.RoleSupervisor) == StatusPending
	case internal.RoleSectionalHead:
		return rec.IsAnnual() && rec.StepStatus(internal.RoleSectionalHead) == StatusPending
	case internal.RoleDepartmentalHead:
		return rec.IsAnnual() &&
			rec.StepStatus(internal.RoleSectionalHead) == StatusApproved &&
			rec.StepStatus(internal.RoleDepartmentalHead) == StatusPending
	case internal.RoleHRDirector:
		if rec.IsShort() {
			return rec.StepStatus(internal.RoleHRDirector) == StatusPending
		}
		return rec.StepStatus(internal.RoleSectionalHead) == StatusApproved &&
			rec.StepStatus(internal.RoleDepartmentalHead) == StatusApproved &&
			rec.StepStatus(internal.RoleHRDirector) == StatusPending
	}
	return false
}

// PendingApprovals lists the pending leaves that wait on actor's role.
func (s *Service) PendingApprovals(ctx context.Context, actor internal.Identity, leaveType string) ([]*Record, error) {
	if actor.Role == internal.RoleEmployee || !actor.Role.Valid() {
		return nil, internal.ErrForbiddenRole
	}
	kind, err := parseKindFilter(leaveType, false)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.ListByStatus(ctx, kind, StatusPending)
	if err != nil {
		return nil, s.storageErr("list pending leaves", err, "role", actor.Role)
	}

	out := make([]*Record, 0, len(pending))
	for _, rec := range pending {
		if awaits(actor.Role, rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListAll returns every leave of both kinds.
func (s *Service) ListAll(ctx context.Context, actor internal.Identity) ([]*Record, error) {
	if !actor.HasRole(internal.RoleSectionalHead, internal.RoleDepartmentalHead, internal.RoleHRDirector, internal.RoleAdmin) {
		return nil, internal.ErrForbiddenRole
	}
	records, err := s.repo.ListAll(ctx, "")
	if err != nil {
		return nil, s.storageErr("list leaves", err)
	}
	return records, nil
}

// AdminList returns every leave of one kind.
func (s *Service) AdminList(ctx context.Context, actor internal.Identity, leaveType string) ([]*Record, error) {
	if !actor.HasRole(internal.RoleHRDirector, internal.RoleAdmin) {
		return nil, internal.ErrForbiddenRole
	}
	kind, err := parseKindFilter(leaveType, true)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListAll(ctx, kind)
	if err != nil {
		return nil, s.storageErr("list leaves", err, "leave_type", kind)
	}
	return records, nil
}

// Get returns one leave to its owner or to any approver role.
func (s *Service) Get(ctx context.Context, actor internal.Identity, id string) (*Record, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.EmployeeID != actor.ID && (actor.Role == internal.RoleEmployee || !actor.Role.Valid()) {
		return nil, internal.ErrForbiddenRole
	}
	return rec, nil
}
