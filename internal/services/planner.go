package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"hireos/internal/models"
	"hireos/internal/repositories"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionSkipped = "skipped"
	ActionError   = "error"
)

// SyncDetail is the audit entry for one external contact. Every contact
// processed in a run yields exactly one detail, even on error.
type SyncDetail struct {
	ContactID     string `json:"contact_id"`
	ExternalName  string `json:"external_name"`
	CandidateName string `json:"candidate_name,omitempty"`
	Action        string `json:"action"`
	Reason        string `json:"reason"`
}

// SyncResult is the full report of one reconciliation run. It is a response
// value built fresh per run, never shared between runs.
type SyncResult struct {
	Success               bool         `json:"success"`
	TotalExternalContacts int          `json:"total_external_contacts"`
	TotalCandidates       int          `json:"total_candidates"`
	Matched               int          `json:"matched"`
	Updated               int          `json:"updated"`
	Created               int          `json:"created"`
	Skipped               int          `json:"skipped"`
	Details               []SyncDetail `json:"details"`
	Errors                []string     `json:"errors,omitempty"`
}

// ExecuteOptions controls the write phase of a run. A nil SelectedContactIDs
// means every eligible unmatched contact is imported; an empty non-nil slice
// means none are. SkipNewCandidates defers all creation to a second pass.
type ExecuteOptions struct {
	SelectedContactIDs []string
	SkipNewCandidates  bool
}

type runMode int

const (
	modePreview runMode = iota
	modeExecute
)

// SyncPlanner orchestrates a reconciliation run: it pulls a bounded batch of
// external contacts and the full internal candidate set, then decides
// create/update/skip per contact. Preview computes the identical plan without
// writing.
type SyncPlanner struct {
	candidates repositories.CandidateRepository
	jobs       repositories.JobRepository
	fields     *FieldMapper
	matcher    *Matcher
	changes    *ChangeDetector
	fetchLimit int
}

func NewSyncPlanner(
	candidateRepo repositories.CandidateRepository,
	jobRepo repositories.JobRepository,
	fetchLimit int,
) *SyncPlanner {
	fields := NewFieldMapper()
	return &SyncPlanner{
		candidates: candidateRepo,
		jobs:       jobRepo,
		fields:     fields,
		matcher:    NewMatcher(fields),
		changes:    NewChangeDetector(fields),
		fetchLimit: fetchLimit,
	}
}

// Preview computes the full decision plan with no writes.
func (p *SyncPlanner) Preview(ctx context.Context, source ContactSource, mapping FieldMapping) *SyncResult {
	return p.run(ctx, source, mapping, modePreview, ExecuteOptions{})
}

// Execute computes the plan and applies it.
func (p *SyncPlanner) Execute(ctx context.Context, source ContactSource, mapping FieldMapping, opts ExecuteOptions) *SyncResult {
	return p.run(ctx, source, mapping, modeExecute, opts)
}

func (p *SyncPlanner) run(ctx context.Context, source ContactSource, mapping FieldMapping, mode runMode, opts ExecuteOptions) *SyncResult {
	result := &SyncResult{Details: []SyncDetail{}}

	contacts, err := source.FetchContacts(ctx, p.fetchLimit)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to fetch external contacts: %v", err))
		return result
	}

	candidates, err := p.candidates.List()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to load candidates: %v", err))
		return result
	}

	result.Success = true
	result.TotalExternalContacts = len(contacts)
	result.TotalCandidates = len(candidates)

	// The candidate set is read once per run. Candidates created mid-run are
	// invisible to later contacts in the same run; that staleness window is
	// accepted.
	for _, contact := range contacts {
		detail, matched := p.processContact(ctx, source, contact, candidates, mapping, mode, opts)
		if matched {
			result.Matched++
		}
		switch detail.Action {
		case ActionCreated:
			result.Created++
		case ActionUpdated:
			result.Updated++
		case ActionSkipped:
			result.Skipped++
		}
		result.Details = append(result.Details, detail)
	}

	return result
}

// processContact runs the per-contact decision tree. A panic while handling
// one record is converted to an error detail so a single bad record cannot
// abort the batch.
func (p *SyncPlanner) processContact(
	ctx context.Context,
	source ContactSource,
	contact ExternalContact,
	candidates []models.Candidate,
	mapping FieldMapping,
	mode runMode,
	opts ExecuteOptions,
) (detail SyncDetail, matched bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  Recovered while processing contact %s: %v\n", contact.ID, r)
			detail = SyncDetail{
				ContactID:    contact.ID,
				ExternalName: p.contactName(contact, mapping),
				Action:       ActionError,
				Reason:       fmt.Sprintf("unexpected failure: %v", r),
			}
		}
	}()

	name := p.contactName(contact, mapping)
	email, _ := p.fields.FieldValue(contact, FieldEmail, mapping)
	email = strings.TrimSpace(email)

	detail = SyncDetail{ContactID: contact.ID, ExternalName: name}

	if name == "" && email == "" {
		detail.Action = ActionSkipped
		detail.Reason = "no name or email"
		return detail, false
	}

	match := p.matcher.Match(contact, candidates, mapping)
	if match == nil {
		return p.planCreate(contact, name, email, mapping, mode, opts), false
	}

	detail.CandidateName = match.Name

	if !p.changes.HasChanges(contact, match, mapping) {
		detail.Action = ActionSkipped
		detail.Reason = "no changes detected"
		return detail, true
	}

	if mode == modePreview {
		detail.Action = ActionUpdated
		detail.Reason = "field changes detected"
		return detail, true
	}

	updates := p.changes.Diff(contact, match, mapping)
	if err := p.candidates.UpdatePartial(match.ID, updates); err != nil {
		detail.Action = ActionError
		detail.Reason = err.Error()
		return detail, true
	}

	detail.Action = ActionUpdated
	detail.Reason = "field changes applied"
	return detail, true
}

// planCreate handles the no-match branch of the decision tree.
func (p *SyncPlanner) planCreate(
	contact ExternalContact,
	name, email string,
	mapping FieldMapping,
	mode runMode,
	opts ExecuteOptions,
) SyncDetail {
	detail := SyncDetail{ContactID: contact.ID, ExternalName: name}

	if opts.SkipNewCandidates {
		detail.Action = ActionSkipped
		detail.Reason = "deferred - handled separately with job assignment"
		return detail
	}

	if email == "" {
		detail.Action = ActionSkipped
		detail.Reason = "no email - cannot create"
		return detail
	}

	if mode == modePreview {
		detail.Action = ActionCreated
		detail.Reason = "no matching candidate found"
		return detail
	}

	if opts.SelectedContactIDs != nil && !containsID(opts.SelectedContactIDs, contact.ID) {
		detail.Action = ActionSkipped
		detail.Reason = "not selected for import"
		return detail
	}

	// Defensive re-read: another contact earlier in this run, or another
	// process, may have created this email since the initial load.
	if current, err := p.candidates.List(); err == nil {
		for i := range current {
			if current[i].Email != "" && strings.EqualFold(current[i].Email, email) {
				detail.Action = ActionSkipped
				detail.Reason = fmt.Sprintf("duplicate email, candidate %s already exists", current[i].ID)
				return detail
			}
		}
	}

	candidate := p.buildCandidate(contact, name, email, mapping)
	if err := p.candidates.Create(candidate); err != nil {
		detail.Action = ActionError
		detail.Reason = err.Error()
		return detail
	}

	detail.Action = ActionCreated
	detail.Reason = "imported from provider"
	return detail
}

func (p *SyncPlanner) buildCandidate(contact ExternalContact, name, email string, mapping FieldMapping) *models.Candidate {
	if name == "" {
		name = email
	}

	candidate := &models.Candidate{
		Name:   name,
		Email:  email,
		Status: models.CandidateStatusNew,
	}

	if phone, ok := p.fields.FieldValue(contact, FieldPhone, mapping); ok {
		candidate.Phone = phone
	}
	if location, ok := p.fields.FieldValue(contact, FieldLocation, mapping); ok {
		candidate.Location = location
	}
	if salary, ok := p.fields.FieldValue(contact, FieldExpectedSalary, mapping); ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(salary), 10, 64); err == nil {
			candidate.ExpectedSalary = parsed
		}
	}
	if years, ok := p.fields.FieldValue(contact, FieldExperienceYears, mapping); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(years), 64); err == nil {
			candidate.ExperienceYears = int(parsed)
		}
	}
	if skills, ok := p.fields.FieldValue(contact, FieldSkills, mapping); ok {
		candidate.Skills = pq.StringArray(SplitSkills(skills))
	}

	// New imports default onto the oldest open job when one exists.
	if job, err := p.jobs.FindFirstOpen(); err == nil {
		candidate.JobID = &job.ID
	}

	return candidate
}

func (p *SyncPlanner) contactName(contact ExternalContact, mapping FieldMapping) string {
	name, _ := p.fields.FieldValue(contact, FieldName, mapping)
	return strings.TrimSpace(name)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
