// Package contracttest provides the canonical exam-package fixtures shared
// by the validation, transform and persistence tests.
package contracttest

import (
	"encoding/json"
	"fmt"
	"time"

	"exam_bank_backend/internal/contract"
)

func QuestionID(i int) string {
	return fmt.Sprintf("11111111-1111-4111-8111-%012d", i)
}

func MediaID(i int) string {
	return fmt.Sprintf("22222222-2222-4222-8222-%012d", i)
}

const (
	NumeracyPackageID  = "33333333-3333-4333-8333-000000000001"
	FractionsPackageID = "33333333-3333-4333-8333-000000000002"
	ReadingPackageID   = "33333333-3333-4333-8333-000000000003"
)

var (
	authoredAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	revisedAt  = time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC)
)

// MustJSON marshals a fixture document. Fixtures are static, so a marshal
// failure is a broken fixture, not a runtime condition.
func MustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// MustMap round-trips a fixture through JSON into a generic map so tests
// can corrupt individual fields before re-encoding.
func MustMap(v any) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(MustJSON(v), &m); err != nil {
		panic(err)
	}
	return m
}

func floatPtr(f float64) *float64 {
	return &f
}

func options() []contract.Option {
	return []contract.Option{
		{ID: "A", Text: "12"},
		{ID: "B", Text: "15"},
		{ID: "C", Text: "18"},
		{ID: "D", Text: "21"},
	}
}

func textBlock(content string) contract.PromptBlock {
	return contract.PromptBlock{Type: contract.BlockText, Content: content}
}

func mcqAnswer(option string) contract.CorrectAnswer {
	return contract.CorrectAnswer{
		Type: contract.ResponseMcq,
		Mcq:  &contract.McqAnswer{CorrectOptionID: option},
	}
}

// NumeracyPackage is a five-question year 3 numeracy exam worth one mark
// per question, with one referenced image asset.
func NumeracyPackage() *contract.ExamPackage {
	return &contract.ExamPackage{
		Metadata: contract.ExamMetadata{
			ID:              NumeracyPackageID,
			Title:           "Year 3 Numeracy Practice Test",
			YearLevel:       3,
			Subject:         contract.SubjectNumeracy,
			AssessmentType:  contract.AssessmentNaplan,
			DurationMinutes: 45,
			TotalMarks:      5,
			Version:         "1.0.0",
			SchemaVersion:   contract.SchemaVersion,
			Status:          contract.StatusDraft,
			CreatedAt:       authoredAt,
			UpdatedAt:       revisedAt,
			Instructions:    []string{"Answer every question.", "You may use scrap paper."},
		},
		Questions: []contract.Question{
			{
				ID:             QuestionID(1),
				SequenceNumber: 1,
				Difficulty:     contract.DifficultyEasy,
				ResponseType:   contract.ResponseMcq,
				Marks:          1,
				PromptBlocks: []contract.PromptBlock{
					textBlock("Sam has 3 bags with 5 apples in each. How many apples does Sam have?"),
				},
				MediaReferences: []contract.MediaReference{
					{
						MediaID:   MediaID(1),
						Type:      contract.MediaImage,
						Placement: contract.PlacementAbove,
						AltText:   "Three bags of apples",
					},
				},
				Options:       options(),
				CorrectAnswer: mcqAnswer("B"),
				Tags:          []string{"multiplication"},
			},
			{
				ID:             QuestionID(2),
				SequenceNumber: 2,
				Difficulty:     contract.DifficultyEasy,
				ResponseType:   contract.ResponseNumeric,
				Marks:          1,
				PromptBlocks:   []contract.PromptBlock{textBlock("What is 24 + 17?")},
				CorrectAnswer: contract.CorrectAnswer{
					Type:    contract.ResponseNumeric,
					Numeric: &contract.NumericAnswer{ExactValue: floatPtr(41)},
				},
			},
			{
				ID:             QuestionID(3),
				SequenceNumber: 3,
				Difficulty:     contract.DifficultyMedium,
				ResponseType:   contract.ResponseNumeric,
				Marks:          1,
				PromptBlocks: []contract.PromptBlock{
					textBlock("Estimate the length of the classroom in metres."),
				},
				CorrectAnswer: contract.CorrectAnswer{
					Type: contract.ResponseNumeric,
					Numeric: &contract.NumericAnswer{
						Range: &contract.NumericRange{Min: 6, Max: 12},
						Unit:  "m",
					},
				},
				Hint: "A car is about 4 metres long.",
			},
			{
				ID:             QuestionID(4),
				SequenceNumber: 4,
				Difficulty:     contract.DifficultyMedium,
				ResponseType:   contract.ResponseShort,
				Marks:          1,
				PromptBlocks: []contract.PromptBlock{
					textBlock("Name the shape with exactly three sides."),
				},
				CorrectAnswer: contract.CorrectAnswer{
					Type:  contract.ResponseShort,
					Short: &contract.ShortAnswer{AcceptedAnswers: []string{"triangle", "a triangle"}},
				},
			},
			{
				ID:             QuestionID(5),
				SequenceNumber: 5,
				Difficulty:     contract.DifficultyHard,
				ResponseType:   contract.ResponseMcq,
				Marks:          1,
				PromptBlocks: []contract.PromptBlock{
					textBlock("Which number is the largest?"),
				},
				Options:       options(),
				CorrectAnswer: mcqAnswer("D"),
			},
		},
		MediaAssets: []contract.MediaAsset{
			{
				ID:        MediaID(1),
				Type:      contract.MediaImage,
				Filename:  "apples.png",
				MimeType:  "image/png",
				Width:     640,
				Height:    480,
				SizeBytes: 51200,
			},
		},
	}
}

// FractionsPackage is an eight-question year 5 fractions exam with mixed
// marks summing to 12. The third question is MCQ so persistence tests can
// provoke option-stage failures on it.
func FractionsPackage() *contract.ExamPackage {
	marks := []int{1, 1, 2, 1, 2, 1, 2, 2}
	questions := make([]contract.Question, 0, len(marks))

	for i, m := range marks {
		q := contract.Question{
			ID:             QuestionID(10 + i),
			SequenceNumber: i + 1,
			Difficulty:     contract.DifficultyMedium,
			Marks:          m,
		}
		switch i % 4 {
		case 0, 2:
			q.ResponseType = contract.ResponseMcq
			q.PromptBlocks = []contract.PromptBlock{
				textBlock(fmt.Sprintf("Which fraction is equivalent to example %d?", i+1)),
			}
			q.Options = options()
			q.CorrectAnswer = mcqAnswer("A")
		case 1:
			q.ResponseType = contract.ResponseNumeric
			q.PromptBlocks = []contract.PromptBlock{
				textBlock(fmt.Sprintf("Write 3/%d as a decimal.", i+3)),
			}
			q.CorrectAnswer = contract.CorrectAnswer{
				Type: contract.ResponseNumeric,
				Numeric: &contract.NumericAnswer{
					Tolerance: &contract.NumericTolerance{Value: 0.75, PlusMinus: 0.01},
				},
			}
		case 3:
			q.ResponseType = contract.ResponseShort
			q.PromptBlocks = []contract.PromptBlock{
				contract.PromptBlock{
					Type:  contract.BlockList,
					Items: []string{"1/2", "2/4", "3/6"},
				},
				textBlock("What do the listed fractions have in common?"),
			}
			q.CorrectAnswer = contract.CorrectAnswer{
				Type:  contract.ResponseShort,
				Short: &contract.ShortAnswer{AcceptedAnswers: []string{"they are equivalent", "equivalent"}},
			}
		}
		questions = append(questions, q)
	}

	return &contract.ExamPackage{
		Metadata: contract.ExamMetadata{
			ID:              FractionsPackageID,
			Title:           "Year 5 Fractions Assessment",
			YearLevel:       5,
			Subject:         contract.SubjectMathematics,
			AssessmentType:  contract.AssessmentIcas,
			DurationMinutes: 60,
			TotalMarks:      12,
			Version:         "2.1.0",
			SchemaVersion:   contract.SchemaVersion,
			Status:          contract.StatusPublished,
			CreatedAt:       authoredAt,
			UpdatedAt:       revisedAt,
		},
		Questions: questions,
	}
}

// ReadingPackage is an eight-question year 7 reading-comprehension exam
// with extended responses and two referenced assets.
func ReadingPackage() *contract.ExamPackage {
	passage := []contract.PromptBlock{
		{Type: contract.BlockHeading, Content: "The Lighthouse Keeper", Level: 2},
		{
			Type:        contract.BlockQuote,
			Content:     "The lamp had burned for forty years, and she meant to keep it burning forty more.",
			Attribution: "Chapter 1",
		},
	}

	questions := []contract.Question{
		{
			ID:             QuestionID(30),
			SequenceNumber: 1,
			Difficulty:     contract.DifficultyEasy,
			ResponseType:   contract.ResponseMcq,
			Marks:          1,
			PromptBlocks:   append(passage, textBlock("What is the keeper's main motivation?")),
			Options:        options(),
			CorrectAnswer:  mcqAnswer("C"),
			MediaReferences: []contract.MediaReference{
				{
					MediaID:   MediaID(10),
					Type:      contract.MediaImage,
					Placement: contract.PlacementAbove,
					AltText:   "A lighthouse on a cliff",
					Caption:   "The lighthouse described in the passage",
				},
			},
		},
		{
			ID:             QuestionID(31),
			SequenceNumber: 2,
			Difficulty:     contract.DifficultyMedium,
			ResponseType:   contract.ResponseShort,
			Marks:          1,
			PromptBlocks:   []contract.PromptBlock{textBlock("In one word, describe the tone of the opening paragraph.")},
			CorrectAnswer: contract.CorrectAnswer{
				Type:  contract.ResponseShort,
				Short: &contract.ShortAnswer{AcceptedAnswers: []string{"determined", "resolute"}},
			},
		},
		{
			ID:             QuestionID(32),
			SequenceNumber: 3,
			Difficulty:     contract.DifficultyHard,
			ResponseType:   contract.ResponseExtended,
			Marks:          4,
			PromptBlocks: []contract.PromptBlock{
				{Type: contract.BlockInstruction, Content: "Write a full paragraph."},
				textBlock("Explain how the author builds tension in the storm scene."),
			},
			MediaReferences: []contract.MediaReference{
				{
					MediaID:   MediaID(11),
					Type:      contract.MediaDiagram,
					Placement: contract.PlacementBelow,
					AltText:   "Story arc diagram",
				},
			},
			CorrectAnswer: contract.CorrectAnswer{
				Type: contract.ResponseExtended,
				Extended: &contract.ExtendedAnswer{
					Rubric: []contract.RubricCriterion{
						{Criterion: "Identifies at least two techniques", MaxMarks: 2},
						{Criterion: "Supports claims with quotations", MaxMarks: 2},
					},
					SampleResponse: "The author shortens sentences as the storm approaches...",
				},
			},
		},
	}

	for i := 3; i < 8; i++ {
		questions = append(questions, contract.Question{
			ID:             QuestionID(30 + i),
			SequenceNumber: i + 1,
			Difficulty:     contract.DifficultyMedium,
			ResponseType:   contract.ResponseMcq,
			Marks:          1,
			PromptBlocks:   []contract.PromptBlock{textBlock(fmt.Sprintf("Comprehension question %d about the passage.", i+1))},
			Options:        options(),
			CorrectAnswer:  mcqAnswer("B"),
		})
	}

	return &contract.ExamPackage{
		Metadata: contract.ExamMetadata{
			ID:              ReadingPackageID,
			Title:           "Year 7 Reading Comprehension",
			YearLevel:       7,
			Subject:         contract.SubjectReading,
			AssessmentType:  contract.AssessmentNaplan,
			DurationMinutes: 65,
			TotalMarks:      11,
			Version:         "1.3.2",
			SchemaVersion:   contract.SchemaVersion,
			Status:          contract.StatusPublished,
			CreatedAt:       authoredAt,
			UpdatedAt:       revisedAt,
		},
		Questions: questions,
		MediaAssets: []contract.MediaAsset{
			{
				ID:        MediaID(10),
				Type:      contract.MediaImage,
				Filename:  "lighthouse.webp",
				MimeType:  "image/webp",
				Width:     1200,
				Height:    800,
				SizeBytes: 183000,
			},
			{
				ID:        MediaID(11),
				Type:      contract.MediaDiagram,
				Filename:  "story-arc.svg",
				MimeType:  "image/svg+xml",
				Width:     800,
				Height:    400,
				SizeBytes: 9400,
			},
		},
	}
}
