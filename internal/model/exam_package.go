package model

import (
	"encoding/json"
	"time"
)

// ExamPackage is the committed package header row. AuthoredAt/RevisedAt
// carry the document's own createdAt/updatedAt; CreatedAt/UpdatedAt are the
// row timestamps.
type ExamPackage struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title           string          `gorm:"size:200;not null" json:"title"`
	YearLevel       int             `gorm:"not null" json:"yearLevel"`
	Subject         string          `gorm:"size:40;not null" json:"subject"`
	AssessmentType  string          `gorm:"size:20;not null" json:"assessmentType"`
	DurationMinutes int             `gorm:"not null" json:"durationMinutes"`
	TotalMarks      int             `gorm:"not null" json:"totalMarks"`
	Version         string          `gorm:"size:20;not null" json:"version"`
	SchemaVersion   string          `gorm:"size:20;not null" json:"schemaVersion"`
	Status          string          `gorm:"size:20;not null" json:"status"`
	Instructions    json.RawMessage `gorm:"type:json" json:"instructions,omitempty"`
	AuthoredAt      time.Time       `json:"authoredAt"`
	RevisedAt       time.Time       `json:"revisedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (ExamPackage) TableName() string {
	return "exam_packages"
}

type ExamMediaAsset struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PackageID string `gorm:"index;type:varchar(36);not null" json:"packageId"`
	Type      string `gorm:"size:20;not null" json:"type"`
	Filename  string `gorm:"size:255;not null" json:"filename"`
	MimeType  string `gorm:"size:40;not null" json:"mimeType"`
	Width     int    `gorm:"not null" json:"width"`
	Height    int    `gorm:"not null" json:"height"`
	SizeBytes int64  `gorm:"not null" json:"sizeBytes"`
}

func (ExamMediaAsset) TableName() string {
	return "exam_media_assets"
}

// ExamQuestion serializes the ordered prompt-block sequence, media
// references and tags as JSON columns; order inside the arrays is
// authoritative and preserved verbatim.
type ExamQuestion struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PackageID       string          `gorm:"type:varchar(36);not null;uniqueIndex:uniq_package_sequence" json:"packageId"`
	SequenceNumber  int             `gorm:"not null;uniqueIndex:uniq_package_sequence" json:"sequenceNumber"`
	Difficulty      string          `gorm:"size:10;not null" json:"difficulty"`
	ResponseType    string          `gorm:"size:10;not null" json:"responseType"`
	Marks           int             `gorm:"not null" json:"marks"`
	PromptBlocks    json.RawMessage `gorm:"type:json;not null" json:"promptBlocks"`
	MediaReferences json.RawMessage `gorm:"type:json" json:"mediaReferences,omitempty"`
	Tags            json.RawMessage `gorm:"type:json" json:"tags,omitempty"`
	Hint            string          `gorm:"type:text" json:"hint,omitempty"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

type ExamQuestionOption struct {
	QuestionID string `gorm:"primaryKey;type:varchar(36)" json:"questionId"`
	OptionID   string `gorm:"primaryKey;size:1" json:"optionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

func (ExamQuestionOption) TableName() string {
	return "exam_question_options"
}

// ExamCorrectAnswer keys on the question: exactly one answer per question.
// Payload is the tagged answer object exactly as validated.
type ExamCorrectAnswer struct {
	QuestionID string          `gorm:"primaryKey;type:varchar(36)" json:"questionId"`
	AnswerType string          `gorm:"size:10;not null" json:"answerType"`
	Payload    json.RawMessage `gorm:"type:json;not null" json:"payload"`
}

func (ExamCorrectAnswer) TableName() string {
	return "exam_correct_answers"
}

// ExamRowBundle is the transformer's output: every row the inserter commits
// for one package, already in dependency order.
type ExamRowBundle struct {
	Package     ExamPackage
	MediaAssets []ExamMediaAsset
	Questions   []ExamQuestion
	Options     []ExamQuestionOption
	Answers     []ExamCorrectAnswer
}

// ExamPackageDetail is the read-side shape assembled back from the five
// relations for downstream consumers. Answers are only populated for
// administrators.
type ExamPackageDetail struct {
	Package     ExamPackage          `json:"package"`
	MediaAssets []ExamMediaAsset     `json:"mediaAssets"`
	Questions   []ExamQuestion       `json:"questions"`
	Options     []ExamQuestionOption `json:"options"`
	Answers     []ExamCorrectAnswer  `json:"answers,omitempty"`
}
