package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type ViolationKind string

const (
	KindInvalidDocument ViolationKind = "invalid_document"
	KindMissingField    ViolationKind = "missing_field"
	KindUnknownField    ViolationKind = "unknown_field"
	KindWrongType       ViolationKind = "wrong_type"
	KindInvalidEnum     ViolationKind = "invalid_enum"
	KindOutOfRange      ViolationKind = "out_of_range"
	KindCardinality     ViolationKind = "cardinality"
	KindBadFormat       ViolationKind = "bad_format"
	KindSchemaVersion   ViolationKind = "unsupported_schema_version"
)

// Violation is one structural failure, addressed by a JSON-ish field path
// such as questions[2].correctAnswer.type.
type Violation struct {
	FieldPath string        `json:"fieldPath"`
	Kind      ViolationKind `json:"kind"`
	Message   string        `json:"message"`
}

// ValidateDocument checks raw JSON against the contract and either binds it
// to a typed ExamPackage or returns every structural violation found. It
// never stops at the first failure and never mutates anything; objects are
// closed, so unknown keys at any depth are violations.
func ValidateDocument(raw []byte) (*ExamPackage, []Violation) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, []Violation{{FieldPath: "$", Kind: KindInvalidDocument, Message: "document is not valid JSON"}}
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, []Violation{{FieldPath: "$", Kind: KindInvalidDocument, Message: "document root must be an object"}}
	}

	v := &structuralValidator{}
	v.checkPackage(obj)
	if len(v.violations) > 0 {
		return nil, v.violations
	}

	var pkg ExamPackage
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, []Violation{{FieldPath: "$", Kind: KindInvalidDocument, Message: err.Error()}}
	}
	return &pkg, nil
}

type structuralValidator struct {
	violations []Violation
}

func (v *structuralValidator) add(path string, kind ViolationKind, format string, args ...any) {
	v.violations = append(v.violations, Violation{
		FieldPath: path,
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
	})
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// closed reports every key of obj that the contract does not declare.
// Unknown keys are reported in sorted order so reports are stable.
func (v *structuralValidator) closed(obj map[string]any, path string, allowed ...string) {
	set := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}
	var unknown []string
	for k := range obj {
		if !set[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		v.add(join(path, k), KindUnknownField, "unknown field %q", k)
	}
}

func (v *structuralValidator) requireString(obj map[string]any, path, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		v.add(join(path, key), KindMissingField, "required field is missing")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be a string")
		return "", false
	}
	return s, true
}

// optionalString returns ("", true) when the key is absent.
func (v *structuralValidator) optionalString(obj map[string]any, path, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", true
	}
	s, ok := raw.(string)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be a string")
		return "", false
	}
	return s, true
}

func intValue(raw any) (int, bool) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(i), true
}

func numberValue(raw any) (float64, bool) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v *structuralValidator) requireInt(obj map[string]any, path, key string) (int, bool) {
	raw, ok := obj[key]
	if !ok {
		v.add(join(path, key), KindMissingField, "required field is missing")
		return 0, false
	}
	i, ok := intValue(raw)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be an integer")
		return 0, false
	}
	return i, true
}

// optionalInt returns (value, present, ok).
func (v *structuralValidator) optionalInt(obj map[string]any, path, key string) (int, bool, bool) {
	raw, ok := obj[key]
	if !ok {
		return 0, false, true
	}
	i, ok := intValue(raw)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be an integer")
		return 0, true, false
	}
	return i, true, true
}

func (v *structuralValidator) optionalBool(obj map[string]any, path, key string) {
	raw, ok := obj[key]
	if !ok {
		return
	}
	if _, ok := raw.(bool); !ok {
		v.add(join(path, key), KindWrongType, "must be a boolean")
	}
}

func (v *structuralValidator) requireObject(obj map[string]any, path, key string) (map[string]any, bool) {
	raw, ok := obj[key]
	if !ok {
		v.add(join(path, key), KindMissingField, "required field is missing")
		return nil, false
	}
	m, ok := raw.(map[string]any)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be an object")
		return nil, false
	}
	return m, true
}

func (v *structuralValidator) requireArray(obj map[string]any, path, key string) ([]any, bool) {
	raw, ok := obj[key]
	if !ok {
		v.add(join(path, key), KindMissingField, "required field is missing")
		return nil, false
	}
	a, ok := raw.([]any)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be an array")
		return nil, false
	}
	return a, true
}

// optionalArray returns (values, present, ok).
func (v *structuralValidator) optionalArray(obj map[string]any, path, key string) ([]any, bool, bool) {
	raw, ok := obj[key]
	if !ok {
		return nil, false, true
	}
	a, ok := raw.([]any)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be an array")
		return nil, true, false
	}
	return a, true, true
}

func (v *structuralValidator) checkUUID(path, s string) {
	if _, err := uuid.Parse(s); err != nil {
		v.add(path, KindBadFormat, "must be a UUID")
	}
}

func (v *structuralValidator) checkTimestamp(path, s string) {
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		v.add(path, KindBadFormat, "must be an RFC 3339 timestamp")
	}
}

// stringItems validates an array of non-empty strings with the given
// cardinality bounds and reports per-element violations.
func (v *structuralValidator) stringItems(arr []any, path string, min, max int) {
	if len(arr) < min || len(arr) > max {
		v.add(path, KindCardinality, "must contain between %d and %d entries, got %d", min, max, len(arr))
	}
	for i, raw := range arr {
		p := fmt.Sprintf("%s[%d]", path, i)
		s, ok := raw.(string)
		if !ok {
			v.add(p, KindWrongType, "must be a string")
			continue
		}
		if s == "" {
			v.add(p, KindOutOfRange, "must not be empty")
		}
	}
}

func (v *structuralValidator) checkPackage(obj map[string]any) {
	v.closed(obj, "", "metadata", "questions", "mediaAssets")

	if meta, ok := v.requireObject(obj, "", "metadata"); ok {
		v.checkMetadata(meta)
	}

	if qs, ok := v.requireArray(obj, "", "questions"); ok {
		if len(qs) < MinQuestions || len(qs) > MaxQuestions {
			v.add("questions", KindCardinality, "must contain between %d and %d questions, got %d", MinQuestions, MaxQuestions, len(qs))
		}
		for i, raw := range qs {
			path := fmt.Sprintf("questions[%d]", i)
			q, ok := raw.(map[string]any)
			if !ok {
				v.add(path, KindWrongType, "must be an object")
				continue
			}
			v.checkQuestion(q, path)
		}
	}

	if assets, present, ok := v.optionalArray(obj, "", "mediaAssets"); present && ok {
		if len(assets) > MaxMediaAssets {
			v.add("mediaAssets", KindCardinality, "must contain at most %d assets, got %d", MaxMediaAssets, len(assets))
		}
		for i, raw := range assets {
			path := fmt.Sprintf("mediaAssets[%d]", i)
			m, ok := raw.(map[string]any)
			if !ok {
				v.add(path, KindWrongType, "must be an object")
				continue
			}
			v.checkMediaAsset(m, path)
		}
	}
}

func (v *structuralValidator) checkMetadata(meta map[string]any) {
	const path = "metadata"
	v.closed(meta, path,
		"id", "title", "yearLevel", "subject", "assessmentType",
		"durationMinutes", "totalMarks", "version", "schemaVersion",
		"status", "createdAt", "updatedAt", "instructions")

	if s, ok := v.requireString(meta, path, "id"); ok {
		v.checkUUID(join(path, "id"), s)
	}
	if s, ok := v.requireString(meta, path, "title"); ok {
		if n := utf8.RuneCountInString(s); n < TitleMinLen || n > TitleMaxLen {
			v.add(join(path, "title"), KindOutOfRange, "length must be between %d and %d characters", TitleMinLen, TitleMaxLen)
		}
	}
	if i, ok := v.requireInt(meta, path, "yearLevel"); ok {
		if i < MinYearLevel || i > MaxYearLevel {
			v.add(join(path, "yearLevel"), KindOutOfRange, "must be between %d and %d", MinYearLevel, MaxYearLevel)
		}
	}
	if s, ok := v.requireString(meta, path, "subject"); ok {
		if !subjects[Subject(s)] {
			v.add(join(path, "subject"), KindInvalidEnum, "unknown subject %q", s)
		}
	}
	if s, ok := v.requireString(meta, path, "assessmentType"); ok {
		if !assessmentTypes[AssessmentType(s)] {
			v.add(join(path, "assessmentType"), KindInvalidEnum, "unknown assessment type %q", s)
		}
	}
	if i, ok := v.requireInt(meta, path, "durationMinutes"); ok {
		if i < MinDurationMinutes || i > MaxDurationMinutes {
			v.add(join(path, "durationMinutes"), KindOutOfRange, "must be between %d and %d", MinDurationMinutes, MaxDurationMinutes)
		}
	}
	if i, ok := v.requireInt(meta, path, "totalMarks"); ok {
		if i < 1 {
			v.add(join(path, "totalMarks"), KindOutOfRange, "must be at least 1")
		}
	}
	if s, ok := v.requireString(meta, path, "version"); ok {
		if !semverPattern.MatchString(s) {
			v.add(join(path, "version"), KindBadFormat, "must be a semantic version")
		}
	}
	if s, ok := v.requireString(meta, path, "schemaVersion"); ok {
		if s != SchemaVersion {
			v.add(join(path, "schemaVersion"), KindSchemaVersion, "expected %q, got %q", SchemaVersion, s)
		}
	}
	if s, ok := v.requireString(meta, path, "status"); ok {
		if !packageStatuses[PackageStatus(s)] {
			v.add(join(path, "status"), KindInvalidEnum, "unknown status %q", s)
		}
	}
	if s, ok := v.requireString(meta, path, "createdAt"); ok {
		v.checkTimestamp(join(path, "createdAt"), s)
	}
	if s, ok := v.requireString(meta, path, "updatedAt"); ok {
		v.checkTimestamp(join(path, "updatedAt"), s)
	}
	if arr, present, ok := v.optionalArray(meta, path, "instructions"); present && ok {
		v.stringItems(arr, join(path, "instructions"), 0, MaxInstructions)
	}
}

func (v *structuralValidator) checkQuestion(q map[string]any, path string) {
	v.closed(q, path,
		"id", "sequenceNumber", "difficulty", "responseType", "marks",
		"promptBlocks", "mediaReferences", "options", "correctAnswer",
		"tags", "hint")

	if s, ok := v.requireString(q, path, "id"); ok {
		v.checkUUID(join(path, "id"), s)
	}
	if i, ok := v.requireInt(q, path, "sequenceNumber"); ok {
		if i < 1 {
			v.add(join(path, "sequenceNumber"), KindOutOfRange, "must be at least 1")
		}
	}
	if s, ok := v.requireString(q, path, "difficulty"); ok {
		if !difficulties[Difficulty(s)] {
			v.add(join(path, "difficulty"), KindInvalidEnum, "unknown difficulty %q", s)
		}
	}

	responseType := ResponseType("")
	if s, ok := v.requireString(q, path, "responseType"); ok {
		if !responseTypes[ResponseType(s)] {
			v.add(join(path, "responseType"), KindInvalidEnum, "unknown response type %q", s)
		} else {
			responseType = ResponseType(s)
		}
	}

	if i, present, ok := v.optionalInt(q, path, "marks"); present && ok {
		if i < MinMarks || i > MaxMarks {
			v.add(join(path, "marks"), KindOutOfRange, "must be between %d and %d", MinMarks, MaxMarks)
		}
	}

	if blocks, ok := v.requireArray(q, path, "promptBlocks"); ok {
		bp := join(path, "promptBlocks")
		if len(blocks) < MinPromptBlocks || len(blocks) > MaxPromptBlocks {
			v.add(bp, KindCardinality, "must contain between %d and %d blocks, got %d", MinPromptBlocks, MaxPromptBlocks, len(blocks))
		}
		for i, raw := range blocks {
			p := fmt.Sprintf("%s[%d]", bp, i)
			b, ok := raw.(map[string]any)
			if !ok {
				v.add(p, KindWrongType, "must be an object")
				continue
			}
			v.checkPromptBlock(b, p)
		}
	}

	if refs, present, ok := v.optionalArray(q, path, "mediaReferences"); present && ok {
		rp := join(path, "mediaReferences")
		if len(refs) > MaxMediaReferences {
			v.add(rp, KindCardinality, "must contain at most %d references, got %d", MaxMediaReferences, len(refs))
		}
		for i, raw := range refs {
			p := fmt.Sprintf("%s[%d]", rp, i)
			r, ok := raw.(map[string]any)
			if !ok {
				v.add(p, KindWrongType, "must be an object")
				continue
			}
			v.checkMediaReference(r, p)
		}
	}

	v.checkOptions(q, path, responseType)

	if ans, ok := v.requireObject(q, path, "correctAnswer"); ok {
		v.checkCorrectAnswer(ans, join(path, "correctAnswer"))
	}

	if tags, present, ok := v.optionalArray(q, path, "tags"); present && ok {
		v.stringItems(tags, join(path, "tags"), 0, MaxTags)
	}
	v.optionalString(q, path, "hint")
}

// checkOptions enforces the structural side of the option contract: MCQ
// questions declare exactly four options, every other response type
// declares none. Which ids pair with the declared answer is a business
// rule, not checked here.
func (v *structuralValidator) checkOptions(q map[string]any, path string, responseType ResponseType) {
	op := join(path, "options")
	opts, present, ok := v.optionalArray(q, path, "options")
	if !ok {
		return
	}

	if responseType == ResponseMcq {
		if !present {
			v.add(op, KindMissingField, "mcq questions must declare options")
			return
		}
		if len(opts) != McqOptionCount {
			v.add(op, KindCardinality, "mcq questions must declare exactly %d options, got %d", McqOptionCount, len(opts))
		}
	} else if present && len(opts) > 0 {
		v.add(op, KindCardinality, "only mcq questions declare options")
	}

	for i, raw := range opts {
		p := fmt.Sprintf("%s[%d]", op, i)
		o, ok := raw.(map[string]any)
		if !ok {
			v.add(p, KindWrongType, "must be an object")
			continue
		}
		v.closed(o, p, "id", "text")
		if s, ok := v.requireString(o, p, "id"); ok {
			if !optionIDSet[s] {
				v.add(join(p, "id"), KindInvalidEnum, "must be one of A, B, C, D")
			}
		}
		if s, ok := v.requireString(o, p, "text"); ok && s == "" {
			v.add(join(p, "text"), KindOutOfRange, "must not be empty")
		}
	}
}

func (v *structuralValidator) checkPromptBlock(b map[string]any, path string) {
	blockType, ok := v.requireString(b, path, "type")
	if !ok {
		return
	}
	if !blockTypes[BlockType(blockType)] {
		v.add(join(path, "type"), KindInvalidEnum, "unknown block type %q", blockType)
		return
	}

	requireContent := func() {
		if s, ok := v.requireString(b, path, "content"); ok && s == "" {
			v.add(join(path, "content"), KindOutOfRange, "must not be empty")
		}
	}

	switch BlockType(blockType) {
	case BlockText, BlockInstruction:
		v.closed(b, path, "type", "content")
		requireContent()
	case BlockHeading:
		v.closed(b, path, "type", "content", "level")
		requireContent()
		if i, present, ok := v.optionalInt(b, path, "level"); present && ok {
			if i < MinHeadingLevel || i > MaxHeadingLevel {
				v.add(join(path, "level"), KindOutOfRange, "must be between %d and %d", MinHeadingLevel, MaxHeadingLevel)
			}
		}
	case BlockList:
		v.closed(b, path, "type", "items", "ordered")
		if items, ok := v.requireArray(b, path, "items"); ok {
			v.stringItems(items, join(path, "items"), MinListItems, MaxListItems)
		}
		v.optionalBool(b, path, "ordered")
	case BlockQuote:
		v.closed(b, path, "type", "content", "attribution")
		requireContent()
		v.optionalString(b, path, "attribution")
	}
}

func (v *structuralValidator) checkCorrectAnswer(ans map[string]any, path string) {
	answerType, ok := v.requireString(ans, path, "type")
	if !ok {
		return
	}
	if !responseTypes[ResponseType(answerType)] {
		v.add(join(path, "type"), KindInvalidEnum, "unknown answer type %q", answerType)
		return
	}

	switch ResponseType(answerType) {
	case ResponseMcq:
		v.closed(ans, path, "type", "correctOptionId")
		if s, ok := v.requireString(ans, path, "correctOptionId"); ok {
			if !optionIDSet[s] {
				v.add(join(path, "correctOptionId"), KindInvalidEnum, "must be one of A, B, C, D")
			}
		}
	case ResponseShort:
		v.closed(ans, path, "type", "acceptedAnswers", "caseSensitive")
		if arr, ok := v.requireArray(ans, path, "acceptedAnswers"); ok {
			v.stringItems(arr, join(path, "acceptedAnswers"), MinAcceptedAnswers, MaxAcceptedAnswers)
		}
		v.optionalBool(ans, path, "caseSensitive")
	case ResponseNumeric:
		v.checkNumericAnswer(ans, path)
	case ResponseExtended:
		v.closed(ans, path, "type", "rubric", "sampleResponse")
		if arr, ok := v.requireArray(ans, path, "rubric"); ok {
			rp := join(path, "rubric")
			if len(arr) < MinRubricCriteria || len(arr) > MaxRubricCriteria {
				v.add(rp, KindCardinality, "must contain between %d and %d criteria, got %d", MinRubricCriteria, MaxRubricCriteria, len(arr))
			}
			for i, raw := range arr {
				p := fmt.Sprintf("%s[%d]", rp, i)
				c, ok := raw.(map[string]any)
				if !ok {
					v.add(p, KindWrongType, "must be an object")
					continue
				}
				v.closed(c, p, "criterion", "maxMarks")
				if s, ok := v.requireString(c, p, "criterion"); ok && s == "" {
					v.add(join(p, "criterion"), KindOutOfRange, "must not be empty")
				}
				if i, ok := v.requireInt(c, p, "maxMarks"); ok {
					if i < MinMarks || i > MaxMarks {
						v.add(join(p, "maxMarks"), KindOutOfRange, "must be between %d and %d", MinMarks, MaxMarks)
					}
				}
			}
		}
		v.optionalString(ans, path, "sampleResponse")
	}
}

// checkNumericAnswer enforces the one-of shape: exactly one of exactValue,
// range and tolerance is declared.
func (v *structuralValidator) checkNumericAnswer(ans map[string]any, path string) {
	v.closed(ans, path, "type", "exactValue", "range", "tolerance", "unit")

	declared := 0
	if raw, ok := ans["exactValue"]; ok {
		declared++
		if _, ok := numberValue(raw); !ok {
			v.add(join(path, "exactValue"), KindWrongType, "must be a number")
		}
	}
	if raw, ok := ans["range"]; ok {
		declared++
		rp := join(path, "range")
		if r, ok := raw.(map[string]any); ok {
			v.closed(r, rp, "min", "max")
			min, minOK := v.requireNumber(r, rp, "min")
			max, maxOK := v.requireNumber(r, rp, "max")
			if minOK && maxOK && min > max {
				v.add(rp, KindOutOfRange, "min must not exceed max")
			}
		} else {
			v.add(rp, KindWrongType, "must be an object")
		}
	}
	if raw, ok := ans["tolerance"]; ok {
		declared++
		tp := join(path, "tolerance")
		if t, ok := raw.(map[string]any); ok {
			v.closed(t, tp, "value", "plusMinus")
			v.requireNumber(t, tp, "value")
			if pm, ok := v.requireNumber(t, tp, "plusMinus"); ok && pm < 0 {
				v.add(join(tp, "plusMinus"), KindOutOfRange, "must not be negative")
			}
		} else {
			v.add(tp, KindWrongType, "must be an object")
		}
	}
	if declared != 1 {
		v.add(path, KindCardinality, "exactly one of exactValue, range, tolerance must be declared, got %d", declared)
	}

	v.optionalString(ans, path, "unit")
}

func (v *structuralValidator) requireNumber(obj map[string]any, path, key string) (float64, bool) {
	raw, ok := obj[key]
	if !ok {
		v.add(join(path, key), KindMissingField, "required field is missing")
		return 0, false
	}
	f, ok := numberValue(raw)
	if !ok {
		v.add(join(path, key), KindWrongType, "must be a number")
		return 0, false
	}
	return f, true
}

func (v *structuralValidator) checkMediaReference(r map[string]any, path string) {
	v.closed(r, path, "mediaId", "type", "placement", "altText", "caption")

	if s, ok := v.requireString(r, path, "mediaId"); ok {
		v.checkUUID(join(path, "mediaId"), s)
	}
	if s, ok := v.requireString(r, path, "type"); ok {
		if !mediaTypes[MediaType(s)] {
			v.add(join(path, "type"), KindInvalidEnum, "unknown media type %q", s)
		}
	}
	if s, ok := v.requireString(r, path, "placement"); ok {
		if !placements[Placement(s)] {
			v.add(join(path, "placement"), KindInvalidEnum, "unknown placement %q", s)
		}
	}
	if s, ok := v.requireString(r, path, "altText"); ok && s == "" {
		v.add(join(path, "altText"), KindOutOfRange, "must not be empty")
	}
	v.optionalString(r, path, "caption")
}

func (v *structuralValidator) checkMediaAsset(m map[string]any, path string) {
	v.closed(m, path, "id", "type", "filename", "mimeType", "width", "height", "sizeBytes")

	if s, ok := v.requireString(m, path, "id"); ok {
		v.checkUUID(join(path, "id"), s)
	}
	if s, ok := v.requireString(m, path, "type"); ok {
		if !mediaTypes[MediaType(s)] {
			v.add(join(path, "type"), KindInvalidEnum, "unknown media type %q", s)
		}
	}
	if s, ok := v.requireString(m, path, "filename"); ok && s == "" {
		v.add(join(path, "filename"), KindOutOfRange, "must not be empty")
	}
	if s, ok := v.requireString(m, path, "mimeType"); ok {
		if !AllowedMimeTypes[s] {
			v.add(join(path, "mimeType"), KindInvalidEnum, "unsupported mime type %q", s)
		}
	}
	if i, ok := v.requireInt(m, path, "width"); ok && i <= 0 {
		v.add(join(path, "width"), KindOutOfRange, "must be positive")
	}
	if i, ok := v.requireInt(m, path, "height"); ok && i <= 0 {
		v.add(join(path, "height"), KindOutOfRange, "must be positive")
	}
	if i, ok := v.requireInt(m, path, "sizeBytes"); ok && i <= 0 {
		v.add(join(path, "sizeBytes"), KindOutOfRange, "must be positive")
	}
}
