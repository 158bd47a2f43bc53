package contract

import (
	"fmt"
	"strconv"
)

type RuleKind string

const (
	RuleAnswerTypeMismatch  RuleKind = "answer_type_mismatch"
	RuleMcqOptionMismatch   RuleKind = "mcq_option_mismatch"
	RuleDanglingMediaRef    RuleKind = "dangling_media_reference"
	RuleMarksTotalMismatch  RuleKind = "marks_total_mismatch"
	RuleDuplicateQuestionID RuleKind = "duplicate_question_id"
	RuleDuplicateMediaID    RuleKind = "duplicate_media_id"
	RuleDuplicateSequence   RuleKind = "duplicate_sequence_number"
)

// RuleViolation is one cross-field failure. QuestionID and MediaID are set
// when the rule concerns that entity; Expected/Actual carry the two sides
// of a mismatch.
type RuleViolation struct {
	Rule       RuleKind `json:"rule"`
	QuestionID string   `json:"questionId,omitempty"`
	MediaID    string   `json:"mediaId,omitempty"`
	Expected   string   `json:"expected,omitempty"`
	Actual     string   `json:"actual,omitempty"`
	Message    string   `json:"message"`
}

// ValidateRules checks the cross-field invariants on a structurally valid
// package: answer discriminants match response types, MCQ answers point at
// declared options, media references resolve, marks sum to the declared
// total, and ids are unique within their scope. The input is never mutated.
func ValidateRules(pkg *ExamPackage) []RuleViolation {
	var out []RuleViolation

	assetIDs := make(map[string]bool, len(pkg.MediaAssets))
	for _, m := range pkg.MediaAssets {
		if assetIDs[m.ID] {
			out = append(out, RuleViolation{
				Rule:    RuleDuplicateMediaID,
				MediaID: m.ID,
				Message: fmt.Sprintf("media asset id %s declared more than once", m.ID),
			})
		}
		assetIDs[m.ID] = true
	}

	questionIDs := make(map[string]bool, len(pkg.Questions))
	sequences := make(map[int]bool, len(pkg.Questions))
	marksSum := 0

	for _, q := range pkg.Questions {
		if questionIDs[q.ID] {
			out = append(out, RuleViolation{
				Rule:       RuleDuplicateQuestionID,
				QuestionID: q.ID,
				Message:    fmt.Sprintf("question id %s declared more than once", q.ID),
			})
		}
		questionIDs[q.ID] = true

		if sequences[q.SequenceNumber] {
			out = append(out, RuleViolation{
				Rule:       RuleDuplicateSequence,
				QuestionID: q.ID,
				Actual:     strconv.Itoa(q.SequenceNumber),
				Message:    fmt.Sprintf("sequence number %d declared more than once", q.SequenceNumber),
			})
		}
		sequences[q.SequenceNumber] = true

		marksSum += q.Marks

		if q.CorrectAnswer.Type != q.ResponseType {
			out = append(out, RuleViolation{
				Rule:       RuleAnswerTypeMismatch,
				QuestionID: q.ID,
				Expected:   string(q.ResponseType),
				Actual:     string(q.CorrectAnswer.Type),
				Message:    fmt.Sprintf("question %s declares responseType %q but its correct answer is %q", q.ID, q.ResponseType, q.CorrectAnswer.Type),
			})
		}

		out = append(out, checkMcqConsistency(q)...)

		for _, ref := range q.MediaReferences {
			if !assetIDs[ref.MediaID] {
				out = append(out, RuleViolation{
					Rule:       RuleDanglingMediaRef,
					QuestionID: q.ID,
					MediaID:    ref.MediaID,
					Message:    fmt.Sprintf("question %s references media %s which is not declared in mediaAssets", q.ID, ref.MediaID),
				})
			}
		}
	}

	if marksSum != pkg.Metadata.TotalMarks {
		out = append(out, RuleViolation{
			Rule:     RuleMarksTotalMismatch,
			Expected: strconv.Itoa(pkg.Metadata.TotalMarks),
			Actual:   strconv.Itoa(marksSum),
			Message:  fmt.Sprintf("metadata declares totalMarks %d but question marks sum to %d", pkg.Metadata.TotalMarks, marksSum),
		})
	}

	return out
}

// checkMcqConsistency verifies that an MCQ question declares each of A, B,
// C, D exactly once and that its answer names a declared option. Skipped
// when the discriminants disagree; the mismatch rule already covers that.
func checkMcqConsistency(q Question) []RuleViolation {
	if q.ResponseType != ResponseMcq || q.CorrectAnswer.Type != ResponseMcq {
		return nil
	}

	var out []RuleViolation
	declared := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if declared[o.ID] {
			out = append(out, RuleViolation{
				Rule:       RuleMcqOptionMismatch,
				QuestionID: q.ID,
				Actual:     o.ID,
				Message:    fmt.Sprintf("question %s declares option %s more than once", q.ID, o.ID),
			})
		}
		declared[o.ID] = true
	}
	for _, id := range OptionIDs {
		if !declared[id] {
			out = append(out, RuleViolation{
				Rule:       RuleMcqOptionMismatch,
				QuestionID: q.ID,
				Expected:   id,
				Message:    fmt.Sprintf("question %s is missing option %s", q.ID, id),
			})
		}
	}
	if q.CorrectAnswer.Mcq != nil && !declared[q.CorrectAnswer.Mcq.CorrectOptionID] {
		out = append(out, RuleViolation{
			Rule:       RuleMcqOptionMismatch,
			QuestionID: q.ID,
			Actual:     q.CorrectAnswer.Mcq.CorrectOptionID,
			Message:    fmt.Sprintf("question %s answer names option %s which is not declared", q.ID, q.CorrectAnswer.Mcq.CorrectOptionID),
		})
	}
	return out
}
