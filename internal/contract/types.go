package contract

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchemaVersion is the only contract version this pipeline accepts.
// Documents declaring anything else are rejected structurally.
const SchemaVersion = "1.0.0"

type Subject string

const (
	SubjectNumeracy             Subject = "numeracy"
	SubjectReading              Subject = "reading"
	SubjectWriting              Subject = "writing"
	SubjectLanguageConventions  Subject = "language_conventions"
	SubjectMathematics          Subject = "mathematics"
	SubjectEnglish              Subject = "english"
	SubjectScience              Subject = "science"
	SubjectDigitalTechnologies  Subject = "digital_technologies"
	SubjectSpelling             Subject = "spelling"
)

type AssessmentType string

const (
	AssessmentNaplan AssessmentType = "naplan"
	AssessmentIcas   AssessmentType = "icas"
)

type PackageStatus string

const (
	StatusDraft     PackageStatus = "draft"
	StatusPublished PackageStatus = "published"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ResponseType is the discriminant shared by Question.ResponseType and
// CorrectAnswer.Type. The two must agree for a package to be ingestible.
type ResponseType string

const (
	ResponseMcq      ResponseType = "mcq"
	ResponseShort    ResponseType = "short"
	ResponseExtended ResponseType = "extended"
	ResponseNumeric  ResponseType = "numeric"
)

type BlockType string

const (
	BlockText        BlockType = "text"
	BlockHeading     BlockType = "heading"
	BlockList        BlockType = "list"
	BlockQuote       BlockType = "quote"
	BlockInstruction BlockType = "instruction"
)

type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaDiagram MediaType = "diagram"
	MediaGraph   MediaType = "graph"
)

type Placement string

const (
	PlacementAbove  Placement = "above"
	PlacementInline Placement = "inline"
	PlacementBelow  Placement = "below"
)

// ExamPackage is the top-level contract document: one assessment submitted
// as a whole, validated as a whole, committed as a whole.
type ExamPackage struct {
	Metadata    ExamMetadata `json:"metadata"`
	Questions   []Question   `json:"questions"`
	MediaAssets []MediaAsset `json:"mediaAssets,omitempty"`
}

type ExamMetadata struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	YearLevel       int            `json:"yearLevel"`
	Subject         Subject        `json:"subject"`
	AssessmentType  AssessmentType `json:"assessmentType"`
	DurationMinutes int            `json:"durationMinutes"`
	TotalMarks      int            `json:"totalMarks"`
	Version         string         `json:"version"`
	SchemaVersion   string         `json:"schemaVersion"`
	Status          PackageStatus  `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Instructions    []string       `json:"instructions,omitempty"`
}

type Question struct {
	ID              string           `json:"id"`
	SequenceNumber  int              `json:"sequenceNumber"`
	Difficulty      Difficulty       `json:"difficulty"`
	ResponseType    ResponseType     `json:"responseType"`
	Marks           int              `json:"marks"`
	PromptBlocks    []PromptBlock    `json:"promptBlocks"`
	MediaReferences []MediaReference `json:"mediaReferences,omitempty"`
	Options         []Option         `json:"options,omitempty"`
	CorrectAnswer   CorrectAnswer    `json:"correctAnswer"`
	Tags            []string         `json:"tags,omitempty"`
	Hint            string           `json:"hint,omitempty"`
}

// UnmarshalJSON applies the marks default: a question that omits marks is
// worth 1 mark.
func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	aux := struct {
		Marks *int `json:"marks"`
		*alias
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Marks == nil {
		q.Marks = 1
	} else {
		q.Marks = *aux.Marks
	}
	return nil
}

// PromptBlock is one entry of a question's ordered prompt sequence. Which
// fields are meaningful depends on Type; the structural validator enforces
// the per-type shapes.
type PromptBlock struct {
	Type        BlockType `json:"type"`
	Content     string    `json:"content,omitempty"`
	Level       int       `json:"level,omitempty"`
	Items       []string  `json:"items,omitempty"`
	Ordered     bool      `json:"ordered,omitempty"`
	Attribution string    `json:"attribution,omitempty"`
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// OptionIDs is the closed set of MCQ option identifiers, in declaration
// order. Every MCQ question carries exactly these four.
var OptionIDs = []string{"A", "B", "C", "D"}

// CorrectAnswer is a closed sum: exactly one variant pointer is non-nil and
// Type names it. Every site that consumes an answer switches exhaustively
// over Type.
type CorrectAnswer struct {
	Type     ResponseType
	Mcq      *McqAnswer
	Short    *ShortAnswer
	Numeric  *NumericAnswer
	Extended *ExtendedAnswer
}

type McqAnswer struct {
	CorrectOptionID string `json:"correctOptionId"`
}

type ShortAnswer struct {
	AcceptedAnswers []string `json:"acceptedAnswers"`
	CaseSensitive   bool     `json:"caseSensitive,omitempty"`
}

// NumericAnswer carries exactly one of ExactValue, Range or Tolerance.
type NumericAnswer struct {
	ExactValue *float64          `json:"exactValue,omitempty"`
	Range      *NumericRange     `json:"range,omitempty"`
	Tolerance  *NumericTolerance `json:"tolerance,omitempty"`
	Unit       string            `json:"unit,omitempty"`
}

type NumericRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type NumericTolerance struct {
	Value     float64 `json:"value"`
	PlusMinus float64 `json:"plusMinus"`
}

type ExtendedAnswer struct {
	Rubric         []RubricCriterion `json:"rubric"`
	SampleResponse string            `json:"sampleResponse,omitempty"`
}

type RubricCriterion struct {
	Criterion string `json:"criterion"`
	MaxMarks  int    `json:"maxMarks"`
}

func (a *CorrectAnswer) UnmarshalJSON(data []byte) error {
	var head struct {
		Type ResponseType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	a.Type = head.Type
	switch head.Type {
	case ResponseMcq:
		a.Mcq = &McqAnswer{}
		return json.Unmarshal(data, a.Mcq)
	case ResponseShort:
		a.Short = &ShortAnswer{}
		return json.Unmarshal(data, a.Short)
	case ResponseNumeric:
		a.Numeric = &NumericAnswer{}
		return json.Unmarshal(data, a.Numeric)
	case ResponseExtended:
		a.Extended = &ExtendedAnswer{}
		return json.Unmarshal(data, a.Extended)
	default:
		return fmt.Errorf("unknown correct answer type %q", head.Type)
	}
}

func (a CorrectAnswer) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case ResponseMcq:
		return json.Marshal(struct {
			Type ResponseType `json:"type"`
			*McqAnswer
		}{a.Type, a.Mcq})
	case ResponseShort:
		return json.Marshal(struct {
			Type ResponseType `json:"type"`
			*ShortAnswer
		}{a.Type, a.Short})
	case ResponseNumeric:
		return json.Marshal(struct {
			Type ResponseType `json:"type"`
			*NumericAnswer
		}{a.Type, a.Numeric})
	case ResponseExtended:
		return json.Marshal(struct {
			Type ResponseType `json:"type"`
			*ExtendedAnswer
		}{a.Type, a.Extended})
	default:
		return nil, fmt.Errorf("unknown correct answer type %q", a.Type)
	}
}

type MediaAsset struct {
	ID        string    `json:"id"`
	Type      MediaType `json:"type"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	SizeBytes int64     `json:"sizeBytes"`
}

type MediaReference struct {
	MediaID   string    `json:"mediaId"`
	Type      MediaType `json:"type"`
	Placement Placement `json:"placement"`
	AltText   string    `json:"altText"`
	Caption   string    `json:"caption,omitempty"`
}
