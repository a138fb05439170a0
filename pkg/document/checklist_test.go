package document

import (
	"testing"

	"github.com/goliatone/go-intake/pkg/pathway"
)

func testRequirements() []pathway.DocumentRequirement {
	return []pathway.DocumentRequirement{
		{ID: "marriage-certificate", AcceptedFormats: []string{MimePDF}, MaxSize: 5 * 1024 * 1024},
		{ID: "financial-statement", MaxSize: 5 * 1024 * 1024},
		{ID: "property-document", MaxSize: 5 * 1024 * 1024, Optional: true},
	}
}

func TestComputeStatus_Lifecycle(t *testing.T) {
	reqs := testRequirements()

	statuses := ComputeStatus(reqs, nil)
	for id, status := range statuses {
		if status != StatusMissing {
			t.Fatalf("requirement %q should start missing, got %q", id, status)
		}
	}

	uploads := []Upload{{Type: "marriage-certificate", Name: "cert.pdf"}}
	statuses = ComputeStatus(reqs, uploads)
	if statuses["marriage-certificate"] != StatusPending {
		t.Fatalf("expected pending, got %q", statuses["marriage-certificate"])
	}

	uploads[0].Verification = VerificationVerified
	statuses = ComputeStatus(reqs, uploads)
	if statuses["marriage-certificate"] != StatusVerified {
		t.Fatalf("expected verified, got %q", statuses["marriage-certificate"])
	}

	uploads[0].Verification = VerificationRejected
	statuses = ComputeStatus(reqs, uploads)
	if statuses["marriage-certificate"] != StatusRejected {
		t.Fatalf("expected rejected, got %q", statuses["marriage-certificate"])
	}
}

func TestProgress_OptionalNeverBlocks(t *testing.T) {
	reqs := testRequirements()
	uploads := []Upload{
		{Type: "marriage-certificate", Verification: VerificationVerified},
		{Type: "financial-statement", Verification: VerificationVerified},
	}

	report := Progress(reqs, uploads)

	if !report.Complete {
		t.Fatalf("optional requirement blocked completion: %+v", report)
	}
	if report.Required != 2 || report.RequiredVerified != 2 {
		t.Fatalf("unexpected counts: %+v", report)
	}
}

func TestProgress_Monotonicity(t *testing.T) {
	reqs := testRequirements()

	before := Progress(reqs, []Upload{
		{Type: "financial-statement", Verification: VerificationVerified},
	})
	after := Progress(reqs, []Upload{
		{Type: "financial-statement", Verification: VerificationVerified},
		{Type: "marriage-certificate", Verification: VerificationVerified},
	})

	if after.RequiredUploaded <= before.RequiredUploaded {
		t.Fatalf("requiredUploaded did not increase: %d -> %d", before.RequiredUploaded, after.RequiredUploaded)
	}
	if before.Complete {
		t.Fatalf("incomplete checklist reported complete")
	}
	if !after.Complete {
		t.Fatalf("verified checklist reported incomplete")
	}
}

func TestProgress_PendingCountsAsUploaded(t *testing.T) {
	reqs := testRequirements()
	report := Progress(reqs, []Upload{{Type: "marriage-certificate"}})

	if report.RequiredUploaded != 1 || report.RequiredVerified != 0 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.Complete {
		t.Fatalf("pending upload must not complete the checklist")
	}
}
