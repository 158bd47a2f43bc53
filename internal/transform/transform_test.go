package transform_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"exam_bank_backend/internal/contract"
	"exam_bank_backend/internal/contract/contracttest"
	"exam_bank_backend/internal/transform"
)

func TestRowsIsDeterministic(t *testing.T) {
	first, err := transform.Rows(contracttest.ReadingPackage())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	second, err := transform.Rows(contracttest.ReadingPackage())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("transforming the same package twice produced different bundles")
	}
}

func TestRowsDeclaredIDsPassThrough(t *testing.T) {
	pkg := contracttest.NumeracyPackage()
	bundle, err := transform.Rows(pkg)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	if bundle.Package.ID != pkg.Metadata.ID {
		t.Errorf("package row id = %q, want %q", bundle.Package.ID, pkg.Metadata.ID)
	}
	if len(bundle.Questions) != len(pkg.Questions) {
		t.Fatalf("got %d question rows, want %d", len(bundle.Questions), len(pkg.Questions))
	}
	for i, q := range pkg.Questions {
		row := bundle.Questions[i]
		if row.ID != q.ID {
			t.Errorf("questions[%d] row id = %q, want %q", i, row.ID, q.ID)
		}
		if row.PackageID != pkg.Metadata.ID {
			t.Errorf("questions[%d] packageId = %q, want %q", i, row.PackageID, pkg.Metadata.ID)
		}
		if row.SequenceNumber != q.SequenceNumber {
			t.Errorf("questions[%d] sequence = %d, want %d", i, row.SequenceNumber, q.SequenceNumber)
		}
	}
	for i, m := range pkg.MediaAssets {
		if bundle.MediaAssets[i].ID != m.ID {
			t.Errorf("mediaAssets[%d] row id = %q, want %q", i, bundle.MediaAssets[i].ID, m.ID)
		}
	}
}

func TestRowsOptionRowsOnlyForMcq(t *testing.T) {
	pkg := contracttest.FractionsPackage()
	bundle, err := transform.Rows(pkg)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	perQuestion := make(map[string]int)
	for _, o := range bundle.Options {
		perQuestion[o.QuestionID]++
	}

	mcqCount := 0
	for _, q := range pkg.Questions {
		if q.ResponseType == contract.ResponseMcq {
			mcqCount++
			if got := perQuestion[q.ID]; got != 4 {
				t.Errorf("mcq question %s has %d option rows, want 4", q.ID, got)
			}
		} else if got := perQuestion[q.ID]; got != 0 {
			t.Errorf("non-mcq question %s has %d option rows, want 0", q.ID, got)
		}
	}
	if len(bundle.Options) != 4*mcqCount {
		t.Errorf("got %d option rows, want %d", len(bundle.Options), 4*mcqCount)
	}
}

func TestRowsPreservesPromptBlockOrder(t *testing.T) {
	pkg := contracttest.ReadingPackage()
	bundle, err := transform.Rows(pkg)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	for i, q := range pkg.Questions {
		var blocks []contract.PromptBlock
		if err := json.Unmarshal(bundle.Questions[i].PromptBlocks, &blocks); err != nil {
			t.Fatalf("questions[%d] prompt blocks did not round-trip: %v", i, err)
		}
		if !reflect.DeepEqual(blocks, q.PromptBlocks) {
			t.Errorf("questions[%d] prompt blocks changed across the transform", i)
		}
	}
}

func TestRowsAnswerPayloadVerbatim(t *testing.T) {
	pkg := contracttest.FractionsPackage()
	bundle, err := transform.Rows(pkg)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(bundle.Answers) != len(pkg.Questions) {
		t.Fatalf("got %d answer rows, want %d", len(bundle.Answers), len(pkg.Questions))
	}

	for i, q := range pkg.Questions {
		row := bundle.Answers[i]
		if row.QuestionID != q.ID {
			t.Errorf("answers[%d] question id = %q, want %q", i, row.QuestionID, q.ID)
		}
		if row.AnswerType != string(q.CorrectAnswer.Type) {
			t.Errorf("answers[%d] type = %q, want %q", i, row.AnswerType, q.CorrectAnswer.Type)
		}
		var got contract.CorrectAnswer
		if err := json.Unmarshal(row.Payload, &got); err != nil {
			t.Fatalf("answers[%d] payload did not round-trip: %v", i, err)
		}
		if !reflect.DeepEqual(got, q.CorrectAnswer) {
			t.Errorf("answers[%d] payload changed across the transform", i)
		}
	}
}
