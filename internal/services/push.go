package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hireos/internal/models"
)

// Push exports the internal candidate set out through the provider's
// create-or-update write path. The provider performs its own matching by
// email, so candidates without one are skipped.
func (p *SyncPlanner) Push(ctx context.Context, source ContactSource, mapping FieldMapping) *SyncResult {
	result := &SyncResult{Details: []SyncDetail{}}

	candidates, err := p.candidates.List()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to load candidates: %v", err))
		return result
	}

	result.Success = true
	result.TotalCandidates = len(candidates)

	for i := range candidates {
		candidate := &candidates[i]
		detail := SyncDetail{CandidateName: candidate.Name}

		if strings.TrimSpace(candidate.Email) == "" {
			detail.Action = ActionSkipped
			detail.Reason = "no email - cannot push"
			result.Skipped++
			result.Details = append(result.Details, detail)
			continue
		}

		fields := p.providerFields(candidate, mapping)
		record, err := source.CreateOrUpdateContact(ctx, fields)
		if err != nil {
			detail.Action = ActionError
			detail.Reason = err.Error()
			result.Details = append(result.Details, detail)
			continue
		}

		if id, ok := record["id"]; ok {
			detail.ContactID = id
		}
		detail.Action = ActionUpdated
		detail.Reason = "pushed to provider"
		result.Updated++
		result.Details = append(result.Details, detail)
	}

	return result
}

// providerFields translates one candidate into a provider-keyed field map,
// omitting fields the candidate has no value for.
func (p *SyncPlanner) providerFields(candidate *models.Candidate, mapping FieldMapping) map[string]string {
	fields := map[string]string{
		p.fields.FieldName(FieldName, mapping):  candidate.Name,
		p.fields.FieldName(FieldEmail, mapping): candidate.Email,
	}

	if candidate.Phone != "" {
		fields[p.fields.FieldName(FieldPhone, mapping)] = candidate.Phone
	}
	if candidate.Location != "" {
		fields[p.fields.FieldName(FieldLocation, mapping)] = candidate.Location
	}
	if candidate.ExpectedSalary > 0 {
		fields[p.fields.FieldName(FieldExpectedSalary, mapping)] = strconv.FormatInt(candidate.ExpectedSalary, 10)
	}
	if candidate.ExperienceYears > 0 {
		fields[p.fields.FieldName(FieldExperienceYears, mapping)] = strconv.Itoa(candidate.ExperienceYears)
	}
	if len(candidate.Skills) > 0 {
		fields[p.fields.FieldName(FieldSkills, mapping)] = strings.Join(candidate.Skills, ", ")
	}

	return fields
}
