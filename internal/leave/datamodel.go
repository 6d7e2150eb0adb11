package leave

import (
	"github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/google/uuid"
)

func ToShortModel(r *Record) *leaveDatamodel.ShortLeave {
	d := r.ShortDetails
	if d == nil {
		d = &ShortDetails{}
	}
	return &leaveDatamodel.ShortLeave{
		ID:                       r.ID,
		EmployeeID:               r.EmployeeID,
		EmployeeName:             r.EmployeeName,
		PersonNumber:             r.PersonNumber,
		Department:               r.Department,
		ChiefOfficerName:         d.ChiefOfficerName,
		SupervisorName:           d.SupervisorName,
		AssignedToName:           d.AssignedToName,
		AssignedToDesignation:    d.AssignedToDesignation,
		StartDate:                r.StartDate,
		EndDate:                  r.EndDate,
		DaysApplied:              r.DaysApplied,
		Reason:                   r.Reason,
		Recommendation:           d.Recommendation,
		SupervisorRecommendation: d.SupervisorRecommendation,
		SupervisorDate:           d.SupervisorDate,
		ApproverRecommendation:   r.ApproverRecommendation,
		ApproverDate:             r.ApproverDate,
		Status:                   string(r.Status),
		Version:                  r.Version,
		SubmissionDate:           r.SubmissionDate,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func ToAnnualModel(r *Record) *leaveDatamodel.AnnualLeave {
	d := r.AnnualDetails
	if d == nil {
		d = &AnnualDetails{}
	}
	return &leaveDatamodel.AnnualLeave{
		ID:                             r.ID,
		EmployeeID:                     r.EmployeeID,
		EmployeeName:                   r.EmployeeName,
		PersonNumber:                   r.PersonNumber,
		Department:                     r.Department,
		Sector:                         d.Sector,
		AddressWhileAway:               d.AddressWhileAway,
		EmailAddress:                   d.EmailAddress,
		PhoneNumber:                    d.PhoneNumber,
		SectionalHeadName:              d.SectionalHeadName,
		DepartmentalHeadName:           d.DepartmentalHeadName,
		HRDirectorName:                 d.HRDirectorName,
		StartDate:                      r.StartDate,
		EndDate:                        r.EndDate,
		DaysApplied:                    r.DaysApplied,
		Reason:                         r.Reason,
		LeaveBalanceBF:                 d.LeaveBalanceBF,
		CurrentYearLeave:               d.CurrentYearLeave,
		TotalLeaveDays:                 d.TotalLeaveDays,
		LeaveTakenThisYear:             d.LeaveTakenThisYear,
		LeaveBalanceDue:                d.LeaveBalanceDue,
		LeaveApplied:                   d.LeaveApplied,
		LeaveBalanceCF:                 d.LeaveBalanceCF,
		SectionalHeadRecommendation:    d.SectionalHeadRecommendation,
		SectionalHeadDate:              d.SectionalHeadDate,
		DepartmentalHeadRecommendation: d.DepartmentalHeadRecommendation,
		DepartmentalHeadDate:           d.DepartmentalHeadDate,
		DepartmentalHeadDaysGranted:    d.DepartmentalHeadDaysGranted,
		DepartmentalHeadStartDate:      d.DepartmentalHeadStartDate,
		DepartmentalHeadLastDate:       d.DepartmentalHeadLastDate,
		DepartmentalHeadResumeDate:     d.DepartmentalHeadResumeDate,
		ApproverRecommendation:         r.ApproverRecommendation,
		ApproverDate:                   r.ApproverDate,
		Status:                         string(r.Status),
		Version:                        r.Version,
		SubmissionDate:                 r.SubmissionDate,
		CreatedAt:                      r.CreatedAt,
		UpdatedAt:                      r.UpdatedAt,
	}
}

// ToApprovalModels numbers the trail by position for storage.
func ToApprovalModels(r *Record) []*leaveDatamodel.Approval {
	out := make([]*leaveDatamodel.Approval, 0, len(r.Approvals))
	for i, s := range r.Approvals {
		out = append(out, &leaveDatamodel.Approval{
			ID:         uuid.New().String(),
			LeaveID:    r.ID,
			LeaveKind:  string(r.LeaveType),
			Position:   i,
			Role:       string(s.ApproverRole),
			ApproverID: s.ApproverID,
			Status:     string(s.Status),
			Comment:    s.Comment,
			UpdatedAt:  s.UpdatedAt,
		})
	}
	return out
}

// FromApprovalModels expects rows ordered by position.
func FromApprovalModels(rows []*leaveDatamodel.Approval) []ApprovalStep {
	out := make([]ApprovalStep, 0, len(rows))
	for _, a := range rows {
		out = append(out, ApprovalStep{
			ApproverRole: internal.Role(a.Role),
			ApproverID:   a.ApproverID,
			Status:       Status(a.Status),
			Comment:      a.Comment,
			UpdatedAt:    a.UpdatedAt,
		})
	}
	return out
}

func FromShortModel(m *leaveDatamodel.ShortLeave, approvals []*leaveDatamodel.Approval) *Record {
	return &Record{
		Base: Base{
			ID:                     m.ID,
			EmployeeID:             m.EmployeeID,
			LeaveType:              KindShort,
			EmployeeName:           m.EmployeeName,
			PersonNumber:           m.PersonNumber,
			Department:             m.Department,
			StartDate:              m.StartDate.UTC(),
			EndDate:                m.EndDate.UTC(),
			DaysApplied:            m.DaysApplied,
			Reason:                 m.Reason,
			Status:                 Status(m.Status),
			Approvals:              FromApprovalModels(approvals),
			ApproverRecommendation: m.ApproverRecommendation,
			ApproverDate:           m.ApproverDate,
			SubmissionDate:         m.SubmissionDate,
			CreatedAt:              m.CreatedAt,
			UpdatedAt:              m.UpdatedAt,
			Version:                m.Version,
		},
		ShortDetails: &ShortDetails{
			ChiefOfficerName:         m.ChiefOfficerName,
			SupervisorName:           m.SupervisorName,
			AssignedToName:           m.AssignedToName,
			AssignedToDesignation:    m.AssignedToDesignation,
			Recommendation:           m.Recommendation,
			SupervisorRecommendation: m.SupervisorRecommendation,
			SupervisorDate:           m.SupervisorDate,
		},
	}
}

func FromAnnualModel(m *leaveDatamodel.AnnualLeave, approvals []*leaveDatamodel.Approval) *Record {
	return &Record{
		Base: Base{
			ID:                     m.ID,
			EmployeeID:             m.EmployeeID,
			LeaveType:              KindAnnual,
			EmployeeName:           m.EmployeeName,
			PersonNumber:           m.PersonNumber,
			Department:             m.Department,
			StartDate:              m.StartDate.UTC(),
			EndDate:                m.EndDate.UTC(),
			DaysApplied:            m.DaysApplied,
			Reason:                 m.Reason,
			Status:                 Status(m.Status),
			Approvals:              FromApprovalModels(approvals),
			ApproverRecommendation: m.ApproverRecommendation,
			ApproverDate:           m.ApproverDate,
			SubmissionDate:         m.SubmissionDate,
			CreatedAt:              m.CreatedAt,
			UpdatedAt:              m.UpdatedAt,
			Version:                m.Version,
		},
		AnnualDetails: &AnnualDetails{
			Sector:                         m.Sector,
			AddressWhileAway:               m.AddressWhileAway,
			EmailAddress:                   m.EmailAddress,
			PhoneNumber:                    m.PhoneNumber,
			SectionalHeadName:              m.SectionalHeadName,
			DepartmentalHeadName:           m.DepartmentalHeadName,
			HRDirectorName:                 m.HRDirectorName,
			SectionalHeadRecommendation:    m.SectionalHeadRecommendation,
			SectionalHeadDate:              m.SectionalHeadDate,
			DepartmentalHeadRecommendation: m.DepartmentalHeadRecommendation,
			DepartmentalHeadDate:           m.DepartmentalHeadDate,
			DepartmentalHeadDaysGranted:    m.DepartmentalHeadDaysGranted,
			DepartmentalHeadStartDate:      m.DepartmentalHeadStartDate,
			DepartmentalHeadLastDate:       m.DepartmentalHeadLastDate,
			DepartmentalHeadResumeDate:     m.DepartmentalHeadResumeDate,
			Snapshot: Snapshot{
				LeaveBalanceBF:     m.LeaveBalanceBF,
				CurrentYearLeave:   m.CurrentYearLeave,
				TotalLeaveDays:     m.TotalLeaveDays,
				LeaveTakenThisYear: m.LeaveTakenThisYear,
				LeaveBalanceDue:    m.LeaveBalanceDue,
				LeaveApplied:       m.LeaveApplied,
				LeaveBalanceCF:     m.LeaveBalanceCF,
			},
		},
	}
}
