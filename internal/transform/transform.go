// Package transform maps a fully validated exam package to the relational
// rows the inserter commits. The mapping is total over the validated
// domain: every declared id passes through unchanged and no branch depends
// on anything validation has not already guaranteed.
package transform

import (
	"encoding/json"
	"fmt"

	"exam_bank_backend/internal/contract"
	"exam_bank_backend/internal/model"
)

// Defect reports a failure inside the transform. Validation excludes every
// input the transform cannot handle, so a Defect is an internal invariant
// failure to investigate, never a user-facing validation error.
type Defect struct {
	Path string
	Err  error
}

func (d *Defect) Error() string {
	return fmt.Sprintf("transform defect at %s: %v", d.Path, d.Err)
}

func (d *Defect) Unwrap() error {
	return d.Err
}

// Rows builds the ordered row bundle for a validated package. Questions,
// options and media assets keep their document order; option rows exist
// only for MCQ questions; each question yields exactly one answer row
// carrying the tagged payload verbatim.
func Rows(pkg *contract.ExamPackage) (*model.ExamRowBundle, error) {
	meta := pkg.Metadata

	bundle := &model.ExamRowBundle{
		Package: model.ExamPackage{
			ID:              meta.ID,
			Title:           meta.Title,
			YearLevel:       meta.YearLevel,
			Subject:         string(meta.Subject),
			AssessmentType:  string(meta.AssessmentType),
			DurationMinutes: meta.DurationMinutes,
			TotalMarks:      meta.TotalMarks,
			Version:         meta.Version,
			SchemaVersion:   meta.SchemaVersion,
			Status:          string(meta.Status),
			AuthoredAt:      meta.CreatedAt,
			RevisedAt:       meta.UpdatedAt,
		},
	}

	if len(meta.Instructions) > 0 {
		raw, err := marshal("metadata.instructions", meta.Instructions)
		if err != nil {
			return nil, err
		}
		bundle.Package.Instructions = raw
	}

	for _, m := range pkg.MediaAssets {
		bundle.MediaAssets = append(bundle.MediaAssets, model.ExamMediaAsset{
			ID:        m.ID,
			PackageID: meta.ID,
			Type:      string(m.Type),
			Filename:  m.Filename,
			MimeType:  m.MimeType,
			Width:     m.Width,
			Height:    m.Height,
			SizeBytes: m.SizeBytes,
		})
	}

	for i, q := range pkg.Questions {
		path := fmt.Sprintf("questions[%d]", i)

		blocks, err := marshal(path+".promptBlocks", q.PromptBlocks)
		if err != nil {
			return nil, err
		}

		row := model.ExamQuestion{
			ID:             q.ID,
			PackageID:      meta.ID,
			SequenceNumber: q.SequenceNumber,
			Difficulty:     string(q.Difficulty),
			ResponseType:   string(q.ResponseType),
			Marks:          q.Marks,
			PromptBlocks:   blocks,
			Hint:           q.Hint,
		}
		if len(q.MediaReferences) > 0 {
			raw, err := marshal(path+".mediaReferences", q.MediaReferences)
			if err != nil {
				return nil, err
			}
			row.MediaReferences = raw
		}
		if len(q.Tags) > 0 {
			raw, err := marshal(path+".tags", q.Tags)
			if err != nil {
				return nil, err
			}
			row.Tags = raw
		}
		bundle.Questions = append(bundle.Questions, row)

		if q.ResponseType == contract.ResponseMcq {
			for _, o := range q.Options {
				bundle.Options = append(bundle.Options, model.ExamQuestionOption{
					QuestionID: q.ID,
					OptionID:   o.ID,
					Text:       o.Text,
				})
			}
		}

		payload, err := marshal(path+".correctAnswer", q.CorrectAnswer)
		if err != nil {
			return nil, err
		}
		bundle.Answers = append(bundle.Answers, model.ExamCorrectAnswer{
			QuestionID: q.ID,
			AnswerType: string(q.CorrectAnswer.Type),
			Payload:    payload,
		})
	}

	return bundle, nil
}

func marshal(path string, v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, &Defect{Path: path, Err: err}
	}
	return raw, nil
}
