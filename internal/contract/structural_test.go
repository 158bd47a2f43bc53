package contract_test

import (
	"encoding/json"
	"testing"

	"exam_bank_backend/internal/contract"
	"exam_bank_backend/internal/contract/contracttest"
)

func hasViolation(vs []contract.Violation, path string, kind contract.ViolationKind) bool {
	for _, v := range vs {
		if v.FieldPath == path && v.Kind == kind {
			return true
		}
	}
	return false
}

func mustReencode(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("re-encode fixture: %v", err)
	}
	return raw
}

func questionMap(t *testing.T, doc map[string]any, i int) map[string]any {
	t.Helper()
	qs, ok := doc["questions"].([]any)
	if !ok || i >= len(qs) {
		t.Fatalf("fixture has no questions[%d]", i)
	}
	q, ok := qs[i].(map[string]any)
	if !ok {
		t.Fatalf("questions[%d] is not an object", i)
	}
	return q
}

func metadataMap(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	meta, ok := doc["metadata"].(map[string]any)
	if !ok {
		t.Fatal("fixture has no metadata object")
	}
	return meta
}

func TestValidateDocumentAcceptsCanonicalFixtures(t *testing.T) {
	fixtures := map[string]*contract.ExamPackage{
		"numeracy":  contracttest.NumeracyPackage(),
		"fractions": contracttest.FractionsPackage(),
		"reading":   contracttest.ReadingPackage(),
	}

	for name, fixture := range fixtures {
		pkg, violations := contract.ValidateDocument(contracttest.MustJSON(fixture))
		if len(violations) != 0 {
			t.Errorf("%s: unexpected violations: %+v", name, violations)
			continue
		}
		if pkg == nil {
			t.Errorf("%s: valid document bound to nil package", name)
			continue
		}
		if pkg.Metadata.ID != fixture.Metadata.ID {
			t.Errorf("%s: bound package id = %q, want %q", name, pkg.Metadata.ID, fixture.Metadata.ID)
		}
		if len(pkg.Questions) != len(fixture.Questions) {
			t.Errorf("%s: bound %d questions, want %d", name, len(pkg.Questions), len(fixture.Questions))
		}
	}
}

func TestValidateDocumentRejectsMalformedJSON(t *testing.T) {
	pkg, violations := contract.ValidateDocument([]byte(`{"metadata":`))
	if pkg != nil {
		t.Fatal("malformed document bound to a package")
	}
	if len(violations) != 1 || violations[0].Kind != contract.KindInvalidDocument {
		t.Fatalf("want a single invalid_document violation, got %+v", violations)
	}
}

func TestValidateDocumentRejectsNonObjectRoot(t *testing.T) {
	pkg, violations := contract.ValidateDocument([]byte(`[1, 2, 3]`))
	if pkg != nil {
		t.Fatal("array document bound to a package")
	}
	if len(violations) != 1 || violations[0].Kind != contract.KindInvalidDocument {
		t.Fatalf("want a single invalid_document violation, got %+v", violations)
	}
}

func TestValidateDocumentRejectsUnknownFieldsAtEveryDepth(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	doc["publisher"] = "Acme"
	metadataMap(t, doc)["difficultyCurve"] = "steep"
	q := questionMap(t, doc, 0)
	blocks := q["promptBlocks"].([]any)
	blocks[0].(map[string]any)["style"] = "bold"

	pkg, violations := contract.ValidateDocument(mustReencode(t, doc))
	if pkg != nil {
		t.Fatal("document with unknown fields bound to a package")
	}
	for _, path := range []string{
		"publisher",
		"metadata.difficultyCurve",
		"questions[0].promptBlocks[0].style",
	} {
		if !hasViolation(violations, path, contract.KindUnknownField) {
			t.Errorf("missing unknown_field violation at %s, got %+v", path, violations)
		}
	}
}

func TestValidateDocumentPinsSchemaVersion(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	metadataMap(t, doc)["schemaVersion"] = "2.0.0"

	pkg, violations := contract.ValidateDocument(mustReencode(t, doc))
	if pkg != nil {
		t.Fatal("document with foreign schema version bound to a package")
	}
	if len(violations) != 1 {
		t.Fatalf("want exactly one violation, got %+v", violations)
	}
	if !hasViolation(violations, "metadata.schemaVersion", contract.KindSchemaVersion) {
		t.Fatalf("want unsupported_schema_version at metadata.schemaVersion, got %+v", violations)
	}
}

func TestValidateDocumentReportsEveryViolation(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	meta := metadataMap(t, doc)
	meta["yearLevel"] = 99
	meta["subject"] = "astrology"
	meta["version"] = "one"
	delete(meta, "title")
	q := questionMap(t, doc, 1)
	q["id"] = "not-a-uuid"

	pkg, violations := contract.ValidateDocument(mustReencode(t, doc))
	if pkg != nil {
		t.Fatal("broken document bound to a package")
	}

	want := []struct {
		path string
		kind contract.ViolationKind
	}{
		{"metadata.yearLevel", contract.KindOutOfRange},
		{"metadata.subject", contract.KindInvalidEnum},
		{"metadata.version", contract.KindBadFormat},
		{"metadata.title", contract.KindMissingField},
		{"questions[1].id", contract.KindBadFormat},
	}
	for _, w := range want {
		if !hasViolation(violations, w.path, w.kind) {
			t.Errorf("missing %s violation at %s, got %+v", w.kind, w.path, violations)
		}
	}
	if len(violations) != len(want) {
		t.Errorf("want %d violations, got %d: %+v", len(want), len(violations), violations)
	}
}

func TestValidateDocumentAppliesMarksDefault(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	delete(questionMap(t, doc, 1), "marks")

	pkg, violations := contract.ValidateDocument(mustReencode(t, doc))
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %+v", violations)
	}
	if got := pkg.Questions[1].Marks; got != 1 {
		t.Fatalf("omitted marks bound to %d, want default 1", got)
	}
}

func TestValidateDocumentEnforcesMcqOptionCount(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	q := questionMap(t, doc, 0)
	opts := q["options"].([]any)
	q["options"] = opts[:3]

	_, violations := contract.ValidateDocument(mustReencode(t, doc))
	if !hasViolation(violations, "questions[0].options", contract.KindCardinality) {
		t.Fatalf("want cardinality violation at questions[0].options, got %+v", violations)
	}
}

func TestValidateDocumentRejectsOptionsOnNonMcq(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	q := questionMap(t, doc, 1)
	q["options"] = []any{
		map[string]any{"id": "A", "text": "41"},
	}

	_, violations := contract.ValidateDocument(mustReencode(t, doc))
	if !hasViolation(violations, "questions[1].options", contract.KindCardinality) {
		t.Fatalf("want cardinality violation at questions[1].options, got %+v", violations)
	}
}

func TestValidateDocumentEnforcesNumericOneOf(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	ans := questionMap(t, doc, 1)["correctAnswer"].(map[string]any)
	ans["range"] = map[string]any{"min": 40.0, "max": 42.0}

	_, violations := contract.ValidateDocument(mustReencode(t, doc))
	if !hasViolation(violations, "questions[1].correctAnswer", contract.KindCardinality) {
		t.Fatalf("want cardinality violation at questions[1].correctAnswer, got %+v", violations)
	}
}

func TestValidateDocumentChecksPromptBlockShapes(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	q := questionMap(t, doc, 0)
	q["promptBlocks"] = []any{
		map[string]any{"type": "heading", "content": "Part A", "level": 5},
		map[string]any{"type": "list"},
	}

	_, violations := contract.ValidateDocument(mustReencode(t, doc))
	if !hasViolation(violations, "questions[0].promptBlocks[0].level", contract.KindOutOfRange) {
		t.Errorf("want out_of_range at promptBlocks[0].level, got %+v", violations)
	}
	if !hasViolation(violations, "questions[0].promptBlocks[1].items", contract.KindMissingField) {
		t.Errorf("want missing_field at promptBlocks[1].items, got %+v", violations)
	}
}

func TestValidateDocumentChecksMediaAssets(t *testing.T) {
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	assets := doc["mediaAssets"].([]any)
	asset := assets[0].(map[string]any)
	asset["mimeType"] = "image/gif"
	asset["width"] = 0

	_, violations := contract.ValidateDocument(mustReencode(t, doc))
	if !hasViolation(violations, "mediaAssets[0].mimeType", contract.KindInvalidEnum) {
		t.Errorf("want invalid_enum at mediaAssets[0].mimeType, got %+v", violations)
	}
	if !hasViolation(violations, "mediaAssets[0].width", contract.KindOutOfRange) {
		t.Errorf("want out_of_range at mediaAssets[0].width, got %+v", violations)
	}
}
