package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hireos/internal/models"
	"hireos/internal/repositories"
)

type fakeSource struct {
	contacts []ExternalContact
	fetchErr error
	pushed   []map[string]string
}

func (s *fakeSource) FetchContacts(ctx context.Context, limit int) ([]ExternalContact, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.contacts) > limit {
		return s.contacts[:limit], nil
	}
	return s.contacts, nil
}

func (s *fakeSource) CreateOrUpdateContact(ctx context.Context, fields map[string]string) (map[string]string, error) {
	s.pushed = append(s.pushed, fields)
	return map[string]string{"id": fmt.Sprintf("ext-%d", len(s.pushed))}, nil
}

type fakeCandidateRepo struct {
	candidates    []models.Candidate
	updates       map[uuid.UUID]map[string]interface{}
	created       []*models.Candidate
	listErr       error
	panicOnUpdate bool
}

func newFakeCandidateRepo(candidates ...models.Candidate) *fakeCandidateRepo {
	return &fakeCandidateRepo{
		candidates: candidates,
		updates:    map[uuid.UUID]map[string]interface{}{},
	}
}

func (r *fakeCandidateRepo) List() ([]models.Candidate, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out, nil
}

func (r *fakeCandidateRepo) FindByID(id uuid.UUID) (*models.Candidate, error) {
	for i := range r.candidates {
		if r.candidates[i].ID == id {
			return &r.candidates[i], nil
		}
	}
	return nil, fmt.Errorf("candidate not found")
}

func (r *fakeCandidateRepo) Create(candidate *models.Candidate) error {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	r.created = append(r.created, candidate)
	r.candidates = append(r.candidates, *candidate)
	return nil
}

func (r *fakeCandidateRepo) UpdatePartial(id uuid.UUID, updates map[string]interface{}) error {
	if r.panicOnUpdate {
		panic("storage exploded")
	}
	r.updates[id] = updates

	for i := range r.candidates {
		if r.candidates[i].ID != id {
			continue
		}
		for key, value := range updates {
			switch key {
			case "name":
				r.candidates[i].Name = value.(string)
			case "email":
				r.candidates[i].Email = value.(string)
			case "phone":
				r.candidates[i].Phone = value.(string)
			case "location":
				r.candidates[i].Location = value.(string)
			case "expected_salary":
				r.candidates[i].ExpectedSalary = value.(int64)
			case "experience_years":
				r.candidates[i].ExperienceYears = value.(int)
			case "skills":
				r.candidates[i].Skills = value.(pq.StringArray)
			}
		}
		return nil
	}
	return fmt.Errorf("candidate not found")
}

func (r *fakeCandidateRepo) Delete(id uuid.UUID) error {
	return nil
}

type fakeJobRepo struct {
	openJob *models.Job
}

func (r *fakeJobRepo) List() ([]models.Job, error) { return nil, nil }
func (r *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	return nil, fmt.Errorf("job not found")
}
func (r *fakeJobRepo) Create(job *models.Job) error { return nil }
func (r *fakeJobRepo) Update(job *models.Job) error { return nil }
func (r *fakeJobRepo) Delete(id uuid.UUID) error    { return nil }
func (r *fakeJobRepo) FindFirstOpen() (*models.Job, error) {
	if r.openJob == nil {
		return nil, fmt.Errorf("no open job found")
	}
	return r.openJob, nil
}

var _ repositories.CandidateRepository = (*fakeCandidateRepo)(nil)
var _ repositories.JobRepository = (*fakeJobRepo)(nil)

func newTestPlanner(candidates *fakeCandidateRepo, jobs *fakeJobRepo) *SyncPlanner {
	return NewSyncPlanner(candidates, jobs, 500)
}

func contact(id string, fields map[string]string) ExternalContact {
	return ExternalContact{ID: id, Fields: fields}
}

func detailFor(t *testing.T, result *SyncResult, contactID string) SyncDetail {
	t.Helper()
	for _, detail := range result.Details {
		if detail.ContactID == contactID {
			return detail
		}
	}
	t.Fatalf("no detail for contact %s in %v", contactID, result.Details)
	return SyncDetail{}
}

func TestPreviewNeverWrites(t *testing.T) {
	existing := models.Candidate{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	repo := newFakeCandidateRepo(existing)
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Jane Doe", "email": "jane@example.com", "phone": "555-0100"}),
		contact("c2", map[string]string{"name": "Bob Brown", "email": "bob@example.com"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Preview(context.Background(), source, nil)

	if !result.Success {
		t.Fatalf("expected preview to succeed: %v", result.Errors)
	}
	if result.Updated != 1 || result.Created != 1 || result.Matched != 1 {
		t.Fatalf("expected 1 updated / 1 created / 1 matched, got %+v", result)
	}
	if len(repo.created) != 0 || len(repo.updates) != 0 {
		t.Fatalf("preview must not write: created=%d updates=%d", len(repo.created), len(repo.updates))
	}

	if d := detailFor(t, result, "c1"); d.Action != ActionUpdated || d.Reason != "field changes detected" {
		t.Fatalf("unexpected preview detail for c1: %+v", d)
	}
	if d := detailFor(t, result, "c2"); d.Action != ActionCreated || d.Reason != "no matching candidate found" {
		t.Fatalf("unexpected preview detail for c2: %+v", d)
	}
}

func TestExecuteAppliesPlanAndAssignsDefaultJob(t *testing.T) {
	existing := models.Candidate{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	repo := newFakeCandidateRepo(existing)
	openJob := &models.Job{ID: uuid.New(), Title: "Backend Engineer", Status: models.JobStatusOpen}
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Jane Doe", "email": "jane@example.com", "location": "Berlin"}),
		contact("c2", map[string]string{
			"name":             "Bob Brown",
			"email":            "bob@example.com",
			"expected_salary":  "80000",
			"experience_years": "3",
			"skills":           "Go, Kafka",
		}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{openJob: openJob})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{})

	if result.Updated != 1 || result.Created != 1 {
		t.Fatalf("expected 1 updated / 1 created, got %+v", result)
	}

	updates, ok := repo.updates[existing.ID]
	if !ok {
		t.Fatalf("expected a partial update for the matched candidate")
	}
	if len(updates) != 1 || updates["location"] != "Berlin" {
		t.Fatalf("expected update to touch only location, got %v", updates)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one created candidate, got %d", len(repo.created))
	}
	imported := repo.created[0]
	if imported.Name != "Bob Brown" || imported.Status != models.CandidateStatusNew {
		t.Fatalf("unexpected imported candidate: %+v", imported)
	}
	if imported.ExpectedSalary != 80000 || imported.ExperienceYears != 3 {
		t.Fatalf("expected parsed numeric fields, got %+v", imported)
	}
	if len(imported.Skills) != 2 || imported.Skills[1] != "Kafka" {
		t.Fatalf("expected parsed skills, got %v", imported.Skills)
	}
	if imported.JobID == nil || *imported.JobID != openJob.ID {
		t.Fatalf("expected default assignment to the open job, got %v", imported.JobID)
	}
}

func TestExecuteIsIdempotent(t *testing.T) {
	existing := models.Candidate{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	repo := newFakeCandidateRepo(existing)
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Jane Doe", "email": "jane@example.com", "phone": "555-0100"}),
		contact("c2", map[string]string{"name": "Bob Brown", "email": "bob@example.com"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	first := planner.Execute(context.Background(), source, nil, ExecuteOptions{})
	if first.Updated != 1 || first.Created != 1 {
		t.Fatalf("first run: expected 1 updated / 1 created, got %+v", first)
	}

	second := planner.Execute(context.Background(), source, nil, ExecuteOptions{})
	if second.Updated != 0 || second.Created != 0 {
		t.Fatalf("second run: expected no writes, got %+v", second)
	}
	if second.Skipped != 2 || second.Matched != 2 {
		t.Fatalf("second run: expected both contacts matched and skipped, got %+v", second)
	}
}

func TestExecuteSelectionControlsImports(t *testing.T) {
	tests := []struct {
		name          string
		selected      []string
		expectCreated int
		expectSkipped int
	}{
		{
			name:          "nil selection imports everything",
			selected:      nil,
			expectCreated: 2,
			expectSkipped: 0,
		},
		{
			name:          "empty selection imports nothing",
			selected:      []string{},
			expectCreated: 0,
			expectSkipped: 2,
		},
		{
			name:          "partial selection imports only chosen ids",
			selected:      []string{"c2"},
			expectCreated: 1,
			expectSkipped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeCandidateRepo()
			source := &fakeSource{contacts: []ExternalContact{
				contact("c1", map[string]string{"name": "Ana Lima", "email": "ana@example.com"}),
				contact("c2", map[string]string{"name": "Bob Brown", "email": "bob@example.com"}),
			}}

			planner := newTestPlanner(repo, &fakeJobRepo{})
			result := planner.Execute(context.Background(), source, nil, ExecuteOptions{
				SelectedContactIDs: tt.selected,
			})

			if result.Created != tt.expectCreated || result.Skipped != tt.expectSkipped {
				t.Fatalf("expected %d created / %d skipped, got %+v",
					tt.expectCreated, tt.expectSkipped, result)
			}

			if tt.selected != nil && len(tt.selected) == 1 {
				if d := detailFor(t, result, "c1"); d.Reason != "not selected for import" {
					t.Fatalf("unexpected skip reason: %+v", d)
				}
			}
		})
	}
}

func TestExecuteSkipNewCandidatesDefersCreation(t *testing.T) {
	repo := newFakeCandidateRepo()
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Ana Lima", "email": "ana@example.com"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{SkipNewCandidates: true})

	if result.Created != 0 || result.Skipped != 1 {
		t.Fatalf("expected creation to be deferred, got %+v", result)
	}
	if d := detailFor(t, result, "c1"); d.Reason != "deferred - handled separately with job assignment" {
		t.Fatalf("unexpected defer reason: %+v", d)
	}
}

func TestExecuteSkipsContactsWithoutUsableIdentity(t *testing.T) {
	repo := newFakeCandidateRepo()
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"phone": "555-0100"}),
		contact("c2", map[string]string{"name": "No Email"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{})

	if result.Created != 0 || result.Skipped != 2 {
		t.Fatalf("expected both contacts skipped, got %+v", result)
	}
	if d := detailFor(t, result, "c1"); d.Reason != "no name or email" {
		t.Fatalf("unexpected reason for identity-less contact: %+v", d)
	}
	if d := detailFor(t, result, "c2"); d.Reason != "no email - cannot create" {
		t.Fatalf("unexpected reason for email-less contact: %+v", d)
	}
}

func TestExecuteDetectsDuplicateEmailMidRun(t *testing.T) {
	repo := newFakeCandidateRepo()
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Ana Lima", "email": "ana@example.com"}),
		contact("c2", map[string]string{"name": "Ana L", "email": "ANA@example.com"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{})

	if result.Created != 1 {
		t.Fatalf("expected exactly one creation, got %+v", result)
	}

	d := detailFor(t, result, "c2")
	if d.Action != ActionSkipped || !strings.HasPrefix(d.Reason, "duplicate email, candidate ") {
		t.Fatalf("expected duplicate-email skip, got %+v", d)
	}
}

func TestRunFailsClosedWhenFetchFails(t *testing.T) {
	repo := newFakeCandidateRepo(models.Candidate{ID: uuid.New(), Name: "Jane Doe"})
	source := &fakeSource{fetchErr: fmt.Errorf("provider unreachable")}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{})

	if result.Success {
		t.Fatalf("expected run to fail closed")
	}
	if result.TotalExternalContacts != 0 || result.TotalCandidates != 0 {
		t.Fatalf("expected zeroed counts on fatal fetch error, got %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "provider unreachable") {
		t.Fatalf("expected a single run-level error, got %v", result.Errors)
	}
	if len(repo.updates) != 0 || len(repo.created) != 0 {
		t.Fatalf("fatal fetch must not write")
	}
}

func TestRunFailsClosedWhenCandidateLoadFails(t *testing.T) {
	repo := newFakeCandidateRepo()
	repo.listErr = fmt.Errorf("db down")
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Ana Lima", "email": "ana@example.com"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{})

	if result.Success || len(result.Errors) != 1 {
		t.Fatalf("expected a single fatal error, got %+v", result)
	}
}

func TestOneBadRecordDoesNotAbortTheBatch(t *testing.T) {
	existing := models.Candidate{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	repo := newFakeCandidateRepo(existing)
	repo.panicOnUpdate = true
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Jane Doe", "email": "jane@example.com", "phone": "555-0100"}),
		contact("c2", map[string]string{"name": "Safe Contact", "email": "safe@example.com"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{})

	if len(result.Details) != 2 {
		t.Fatalf("expected a detail per contact, got %d", len(result.Details))
	}
	if d := detailFor(t, result, "c1"); d.Action != ActionError || !strings.Contains(d.Reason, "unexpected failure") {
		t.Fatalf("expected recovered error detail, got %+v", d)
	}
	if result.Created != 1 {
		t.Fatalf("expected the second contact to still be imported, got %+v", result)
	}
}

func TestEveryContactYieldsExactlyOneDetail(t *testing.T) {
	repo := newFakeCandidateRepo()
	source := &fakeSource{contacts: []ExternalContact{
		contact("c1", map[string]string{"name": "Ana Lima", "email": "ana@example.com"}),
		contact("c2", map[string]string{"phone": "555"}),
		contact("c3", map[string]string{"name": "Carl"}),
	}}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Execute(context.Background(), source, nil, ExecuteOptions{})

	if len(result.Details) != result.TotalExternalContacts {
		t.Fatalf("expected %d details, got %d", result.TotalExternalContacts, len(result.Details))
	}
	if result.Created+result.Updated+result.Skipped != 3 {
		t.Fatalf("expected counters to cover every contact, got %+v", result)
	}
}

func TestPushExportsCandidatesWithEmail(t *testing.T) {
	withEmail := models.Candidate{
		ID:     uuid.New(),
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Phone:  "555-0100",
		Skills: pq.StringArray{"Go"},
	}
	withoutEmail := models.Candidate{ID: uuid.New(), Name: "No Email"}
	repo := newFakeCandidateRepo(withEmail, withoutEmail)
	source := &fakeSource{}

	planner := newTestPlanner(repo, &fakeJobRepo{})
	result := planner.Push(context.Background(), source, FieldMapping{FieldEmail: "Email Address"})

	if !result.Success || result.Updated != 1 || result.Skipped != 1 {
		t.Fatalf("expected 1 pushed / 1 skipped, got %+v", result)
	}
	if len(source.pushed) != 1 {
		t.Fatalf("expected one provider write, got %d", len(source.pushed))
	}

	fields := source.pushed[0]
	if fields["Email Address"] != "jane@example.com" {
		t.Fatalf("expected mapped email key, got %v", fields)
	}
	if fields["phone"] != "555-0100" || fields["skills"] != "Go" {
		t.Fatalf("expected populated provider fields, got %v", fields)
	}
	if _, ok := fields["location"]; ok {
		t.Fatalf("empty fields must be omitted from the push payload, got %v", fields)
	}

	for _, detail := range result.Details {
		if detail.CandidateName == withEmail.Name && detail.ContactID != "ext-1" {
			t.Fatalf("expected provider record id on the push detail, got %+v", detail)
		}
		if detail.CandidateName == withoutEmail.Name && detail.Reason != "no email - cannot push" {
			t.Fatalf("unexpected skip reason: %+v", detail)
		}
	}
}
