package document

import "github.com/goliatone/go-intake/pkg/pathway"

// Status describes where one document requirement stands for the current
// session.
type Status string

const (
	StatusMissing  Status = "missing"
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// ComputeStatus derives the per-requirement status map from the uploads on
// hand. Pure function of its inputs; callers recompute on every upload or
// verification event. A requirement is pending as soon as a matching upload
// exists and moves to verified/rejected only on the upload's external
// verification signal.
func ComputeStatus(requirements []pathway.DocumentRequirement, uploads []Upload) map[string]Status {
	statuses := make(map[string]Status, len(requirements))
	for _, requirement := range requirements {
		statuses[requirement.ID] = StatusMissing
		for _, upload := range uploads {
			if upload.Type != requirement.ID {
				continue
			}
			switch upload.Verification {
			case VerificationVerified:
				statuses[requirement.ID] = StatusVerified
			case VerificationRejected:
				if statuses[requirement.ID] != StatusVerified {
					statuses[requirement.ID] = StatusRejected
				}
			default:
				if statuses[requirement.ID] == StatusMissing {
					statuses[requirement.ID] = StatusPending
				}
			}
		}
	}
	return statuses
}

// Progress aggregates checklist completion for UI display. Optional
// requirements are reported but never block Complete.
type ProgressReport struct {
	Required         int
	RequiredUploaded int
	RequiredVerified int
	OptionalUploaded int
	Complete         bool
}

// Progress summarises ComputeStatus into counts. Complete means every
// non-optional requirement is verified.
func Progress(requirements []pathway.DocumentRequirement, uploads []Upload) ProgressReport {
	statuses := ComputeStatus(requirements, uploads)

	report := ProgressReport{Complete: true}
	for _, requirement := range requirements {
		status := statuses[requirement.ID]
		if requirement.Optional {
			if status != StatusMissing {
				report.OptionalUploaded++
			}
			continue
		}
		report.Required++
		if status != StatusMissing {
			report.RequiredUploaded++
		}
		if status == StatusVerified {
			report.RequiredVerified++
		} else {
			report.Complete = false
		}
	}
	return report
}
