// internal/models/job.go
package models

import "time"

// Common application stages. Status is free text; these are the labels the
// tracker itself uses, not an exhaustive set.
const (
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusRejected     = "rejected"
	StatusWithdrawn    = "withdrawn"
)

// Job is one job-application record.
type Job struct {
	ID            string    `json:"id"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
	DateApplied   Date      `json:"date_applied"`
	Platform      string    `json:"platform"`
	Interviewed   bool      `json:"interviewed"`
	NumInterviews int       `json:"num_interviews"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SameFields reports whether the user-entered fields of two records match,
// ignoring identity and bookkeeping timestamps.
func (j Job) SameFields(o Job) bool {
	return j.Company == o.Company &&
		j.Role == o.Role &&
		j.DateApplied.Equal(o.DateApplied) &&
		j.Platform == o.Platform &&
		j.Interviewed == o.Interviewed &&
		j.NumInterviews == o.NumInterviews &&
		j.Status == o.Status
}

// JobPatch carries a partial update. Nil fields are left unchanged.
type JobPatch struct {
	Company       *string `json:"company,omitempty"`
	Role          *string `json:"role,omitempty"`
	DateApplied   *Date   `json:"date_applied,omitempty"`
	Platform      *string `json:"platform,omitempty"`
	Interviewed   *bool   `json:"interviewed,omitempty"`
	NumInterviews *int    `json:"num_interviews,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p JobPatch) IsEmpty() bool {
	return p.Company == nil && p.Role == nil && p.DateApplied == nil &&
		p.Platform == nil && p.Interviewed == nil && p.NumInterviews == nil &&
		p.Status == nil
}

// Apply returns a copy of j with the patch merged in.
func (p JobPatch) Apply(j Job) Job {
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.Role != nil {
		j.Role = *p.Role
	}
	if p.DateApplied != nil {
		j.DateApplied = *p.DateApplied
	}
	if p.Platform != nil {
		j.Platform = *p.Platform
	}
	if p.Interviewed != nil {
		j.Interviewed = *p.Interviewed
	}
	if p.NumInterviews != nil {
		j.NumInterviews = *p.NumInterviews
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	return j
}

// JobFilter narrows a listing. The zero value matches every record.
type JobFilter struct {
	Status      string `json:"status,omitempty"`
	Platform    string `json:"platform,omitempty"`
	AppliedFrom Date   `json:"applied_from,omitempty"`
	AppliedTo   Date   `json:"applied_to,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// Matches reports whether j passes the filter. Limit is not considered.
func (f JobFilter) Matches(j Job) bool {
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.Platform != "" && j.Platform != f.Platform {
		return false
	}
	if !f.AppliedFrom.IsZero() && j.DateApplied.Before(f.AppliedFrom) {
		return false
	}
	if !f.AppliedTo.IsZero() && j.DateApplied.After(f.AppliedTo) {
		return false
	}
	return true
}

// Less orders records newest application first, then newest record, then id.
func Less(a, b Job) bool {
	if !a.DateApplied.Equal(b.DateApplied) {
		return a.DateApplied.After(b.DateApplied)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
