package leave

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

// Field names accepted by UpdateFields.
const (
	FieldSupervisorRecommendation       = "supervisorRecommendation"
	FieldSupervisorDate                 = "supervisorDate"
	FieldSectionalHeadRecommendation    = "sectionalHeadRecommendation"
	FieldSectionalHeadDate              = "sectionalHeadDate"
	FieldDepartmentalHeadRecommendation = "departmentalHeadRecommendation"
	FieldDepartmentalHeadDate           = "departmentalHeadDate"
	FieldDepartmentalHeadDaysGranted    = "departmentalHeadDaysGranted"
	FieldDepartmentalHeadStartDate      = "departmentalHeadStartDate"
	FieldDepartmentalHeadLastDate       = "departmentalHeadLastDate"
	FieldDepartmentalHeadResumeDate     = "departmentalHeadResumeDate"
	FieldApproverRecommendation         = "approverRecommendation"
	FieldApproverDate                   = "approverDate"
)

var roleFields = map[internal.Role][]string{
	internal.RoleSupervisor: {FieldSupervisorRecommendation, FieldSupervisorDate},
	internal.RoleSectionalHead: {FieldSectionalHeadRecommendation, FieldSectionalHeadDate},
	internal.RoleDepartmentalHead: {
		FieldDepartmentalHeadRecommendation,
		FieldDepartmentalHeadDate,
		FieldDepartmentalHeadDaysGranted,
		FieldDepartmentalHeadStartDate,
		FieldDepartmentalHeadLastDate,
		FieldDepartmentalHeadResumeDate,
	},
	internal.RoleHRDirector: {FieldApproverRecommendation, FieldApproverDate},
}

var kindFields = map[Kind][]string{
	KindShort: {
		FieldSupervisorRecommendation, FieldSupervisorDate,
		FieldApproverRecommendation, FieldApproverDate,
	},
	KindAnnual: {
		FieldSectionalHeadRecommendation, FieldSectionalHeadDate,
		FieldDepartmentalHeadRecommendation, FieldDepartmentalHeadDate,
		FieldDepartmentalHeadDaysGranted, FieldDepartmentalHeadStartDate,
		FieldDepartmentalHeadLastDate, FieldDepartmentalHeadResumeDate,
		FieldApproverRecommendation, FieldApproverDate,
	},
}

var kindActors = map[Kind][]internal.Role{
	KindShort:  {internal.RoleSupervisor, internal.RoleHRDirector, internal.RoleAdmin},
	KindAnnual: {internal.RoleSectionalHead, internal.RoleDepartmentalHead, internal.RoleHRDirector, internal.RoleAdmin},
}

// WritableFields returns the fields role may write on a record of kind. Admin
// gets the union of every role.
func WritableFields(role internal.Role, kind Kind) map[string]bool {
	granted := make(map[string]bool)
	if role == internal.RoleAdmin {
		for _, fields := range roleFields {
			for _, f := range fields {
				granted[f] = true
			}
		}
	} else {
		for _, f := range roleFields[role] {
			granted[f] = true
		}
	}

	out := make(map[string]bool)
	for _, f := range kindFields[kind] {
		if granted[f] {
			out[f] = true
		}
	}
	return out
}

// CanAct reports whether role may take any workflow action on kind.
func CanAct(role internal.Role, kind Kind) bool {
	for _, r := range kindActors[kind] {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRecommendation maps the words used on the paper forms onto a step status.
func ParseRecommendation(v string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "approved", "recommended":
		return StatusApproved, true
	case "rejected", "not recommended":
		return StatusRejected, true
	}
	return "", false
}

// Approve applies a simple approve/reject action from actor to leave id.
func (s *Service) Approve(ctx context.Context, actor internal.Identity, id string, dto ApproveDTO) (*Record, error) {
	decision := Status(dto.Status)
	if !decision.IsFinal() {
		return nil, internal.ErrInvalidStatus
	}

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAct(actor.Role, rec.Kind()) {
		s.logger.Warn("leave approval denied", "leave_id", id, "actor_id", actor.ID, "role", actor.Role, "leave_type", rec.Kind())
		return nil, internal.ErrForbiddenRole
	}
	if err := s.checkOpen(actor, rec); err != nil {
		return nil, err
	}

	previous := rec.Status
	now := s.now()

	if rec.IsShort() {
		s.approveShort(actor, rec, decision, dto.Comment, now)
	} else {
		role, err := annualStepFor(actor, rec, dto.ActingAs)
		if err != nil {
			return nil, err
		}
		s.approveAnnual(actor, rec, role, decision, dto.Comment, now)
	}

	rec.RecomputeStatus()
	rec.UpdatedAt = now

	if err := s.persist(ctx, actor, rec, previous); err != nil {
		return nil, err
	}

	s.logger.Info("leave approval recorded",
		"leave_id", rec.ID,
		"actor_id", actor.ID,
		"role", actor.Role,
		"decision", decision,
		"status", rec.Status)
	return rec, nil
}

func (s *Service) approveShort(actor internal.Identity, rec *Record, decision Status, comment string, now time.Time) {
	if rec.ShortDetails == nil {
		rec.ShortDetails = &ShortDetails{}
	}
	if actor.Role == internal.RoleSupervisor {
		rec.MarkStep(internal.RoleSupervisor, decision, actor.ID, comment, now)
		rec.Recommendation = comment
		rec.SupervisorRecommendation = string(decision)
		rec.SupervisorDate = &now
		return
	}
	rec.MarkStep(internal.RoleHRDirector, decision, actor.ID, comment, now)
	rec.ApproverRecommendation = string(decision)
	rec.ApproverDate = &now
}

func (s *Service) approveAnnual(actor internal.Identity, rec *Record, role internal.Role, decision Status, comment string, now time.Time) {
	if rec.AnnualDetails == nil {
		rec.AnnualDetails = &AnnualDetails{}
	}
	rec.MarkStep(role, decision, actor.ID, comment, now)
	switch role {
	case internal.RoleSectionalHead:
		rec.SectionalHeadRecommendation = string(decision)
		rec.SectionalHeadDate = &now
	case internal.RoleDepartmentalHead:
		rec.DepartmentalHeadRecommendation = string(decision)
		rec.DepartmentalHeadDate = &now
	case internal.RoleHRDirector:
		rec.ApproverRecommendation = string(decision)
		rec.ApproverDate = &now
	}
}

// annualStepFor picks the trail step actor decides. Admin may name one with
// actingAs, otherwise takes the earliest pending step.
func annualStepFor(actor internal.Identity, rec *Record, actingAs string) (internal.Role, error) {
	switch actor.Role {
	case internal.RoleSectionalHead, internal.RoleDepartmentalHead, internal.RoleHRDirector:
		return actor.Role, nil
	case internal.RoleAdmin:
		if actingAs != "" {
			role, ok := internal.ParseRole(actingAs)
			if !ok || rec.StepIndex(role) < 0 {
				return "", internal.NewValidationFieldError("actingAs",
					"actingAs must be SectionalHead, DepartmentalHead or HRDirector",
					internal.ErrCodeValidationFailed)
			}
			return role, nil
		}
		if role, ok := rec.FirstPendingStep(); ok {
			return role, nil
		}
		return internal.RoleHRDirector, nil
	}
	return "", internal.ErrForbiddenRole
}

// checkOpen rejects actions on finalized records unless the actor is an Admin.
func (s *Service) checkOpen(actor internal.Identity, rec *Record) error {
	if rec.Status.IsFinal() && actor.Role != internal.RoleAdmin {
		s.logger.Warn("action on finalized leave", "leave_id", rec.ID, "status", rec.Status, "actor_id", actor.ID)
		return internal.ErrLeaveFinalized
	}
	return nil
}

// UpdateFields applies the subset of fields actor's role may write. Fields
// outside that set are dropped; nothing left is an error.
func (s *Service) UpdateFields(ctx context.Context, actor internal.Identity, id string, fields map[string]interface{}) (*Record, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAct(actor.Role, rec.Kind()) {
		s.logger.Warn("leave field update denied", "leave_id", id, "actor_id", actor.ID, "role", actor.Role, "leave_type", rec.Kind())
		return nil, internal.ErrForbiddenRole
	}

	allowed := WritableFields(actor.Role, rec.Kind())
	accepted := make([]string, 0, len(fields))
	dropped := make([]string, 0)
	for name := range fields {
		if allowed[name] {
			accepted = append(accepted, name)
		} else {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) > 0 {
		s.logger.Info("dropping fields outside role", "leave_id", id, "role", actor.Role, "fields", dropped)
	}
	if len(accepted) == 0 {
		return nil, internal.ErrNoValidFields
	}
	sort.Strings(accepted)

	if err := s.checkOpen(actor, rec); err != nil {
		return nil, err
	}

	previous := rec.Status
	now := s.now()
	if rec.IsShort() && rec.ShortDetails == nil {
		rec.ShortDetails = &ShortDetails{}
	}
	if rec.IsAnnual() && rec.AnnualDetails == nil {
		rec.AnnualDetails = &AnnualDetails{}
	}

	for _, name := range accepted {
		if err := applyField(actor, rec, name, fields[name], now); err != nil {
			return nil, err
		}
	}

	rec.RecomputeStatus()
	rec.UpdatedAt = now

	if err := s.persist(ctx, actor, rec, previous); err != nil {
		return nil, err
	}

	s.logger.Info("leave fields updated",
		"leave_id", rec.ID,
		"actor_id", actor.ID,
		"role", actor.Role,
		"fields", accepted,
		"status", rec.Status)
	return rec, nil
}

func applyField(actor internal.Identity, rec *Record, name string, raw interface{}, now time.Time) error {
	switch name {
	case FieldSupervisorRecommendation, FieldSectionalHeadRecommendation, FieldDepartmentalHeadRecommendation:
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		var role internal.Role
		switch name {
		case FieldSupervisorRecommendation:
			rec.SupervisorRecommendation = value
			role = internal.RoleSupervisor
		case FieldSectionalHeadRecommendation:
			rec.SectionalHeadRecommendation = value
			role = internal.RoleSectionalHead
		case FieldDepartmentalHeadRecommendation:
			rec.DepartmentalHeadRecommendation = value
			role = internal.RoleDepartmentalHead
		}
		// free text is kept as a remark; only the recognised words decide the step
		if decision, ok := ParseRecommendation(value); ok {
			rec.MarkStep(role, decision, actor.ID, value, now)
		} else {
			rec.NoteStep(role, actor.ID, value, now)
		}

	case FieldApproverRecommendation:
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		decision := StatusRejected
		if strings.TrimSpace(value) == string(StatusApproved) {
			decision = StatusApproved
		}
		rec.ApproverRecommendation = value
		rec.MarkStep(internal.RoleHRDirector, decision, actor.ID, value, now)

	case FieldDepartmentalHeadDaysGranted:
		days, err := intValue(name, raw)
		if err != nil {
			return err
		}
		rec.DepartmentalHeadDaysGranted = days

	case FieldSupervisorDate, FieldSectionalHeadDate, FieldDepartmentalHeadDate,
		FieldDepartmentalHeadStartDate, FieldDepartmentalHeadLastDate, FieldDepartmentalHeadResumeDate,
		FieldApproverDate:
		d, err := dateValue(name, raw)
		if err != nil {
			return err
		}
		switch name {
		case FieldSupervisorDate:
			rec.SupervisorDate = d
		case FieldSectionalHeadDate:
			rec.SectionalHeadDate = d
		case FieldDepartmentalHeadDate:
			rec.DepartmentalHeadDate = d
		case FieldDepartmentalHeadStartDate:
			rec.DepartmentalHeadStartDate = d
		case FieldDepartmentalHeadLastDate:
			rec.DepartmentalHeadLastDate = d
		case FieldDepartmentalHeadResumeDate:
			rec.DepartmentalHeadResumeDate = d
		case FieldApproverDate:
			rec.ApproverDate = d
		}
	}
	return nil
}

func stringValue(name string, raw interface{}) (string, error) {
	v, ok := raw.(string)
	if !ok {
		return "", internal.NewValidationFieldError(name, name+" must be a string", internal.ErrCodeValidationFailed)
	}
	return v, nil
}

// intValue accepts JSON numbers; null clears the field.
func intValue(name string, raw interface{}) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	var n int
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return nil, internal.NewValidationFieldError(name, name+" must be a whole number", internal.ErrCodeValidationFailed)
		}
		n = int(v)
	case int:
		n = v
	default:
		return nil, internal.NewValidationFieldError(name, name+" must be a number", internal.ErrCodeValidationFailed)
	}
	if n < 0 {
		return nil, internal.NewValidationFieldError(name, name+" cannot be negative", internal.ErrCodeValidationFailed)
	}
	return &n, nil
}

// dateValue accepts YYYY-MM-DD or RFC3339 strings; null or "" clears the field.
func dateValue(name string, raw interface{}) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, internal.NewValidationFieldError(name, name+" must be a date string", internal.ErrCodeInvalidDate)
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, internal.NewValidationFieldError(name, err.Error(), internal.ErrCodeInvalidDate)
	}
	return &d, nil
}

// persist writes rec, recomputes the ledger when approval state moved to or
// from Approved, and announces the change.
func (s *Service) persist(ctx context.Context, actor internal.Identity, rec *Record, previous Status) error {
	if err := s.repo.Update(ctx, rec); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Is(internal.ErrVersionConflict) {
			s.logger.Warn("stale leave write rejected", "leave_id", rec.ID, "version", rec.Version, "actor_id", actor.ID)
		}
		return s.storageErr("update leave", err, "leave_id", rec.ID)
	}

	if previous == StatusApproved || rec.Status == StatusApproved {
		if _, err := s.ledger.RecomputeTaken(ctx, rec.EmployeeID, rec.StartDate.Year()); err != nil {
			s.logger.Error("balance recompute after approval failed",
				"leave_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			return err
		}
	}

	s.publishStatusChanged(ctx, actor, rec, previous)
	return nil
}
