package contract

import "regexp"

// Cardinality and range limits of the contract. These constants are the
// authoritative form of the schema; the structural validator enforces them
// and nothing else re-declares them.
const (
	MinQuestions = 1
	MaxQuestions = 100

	MaxMediaAssets = 50

	TitleMinLen = 1
	TitleMaxLen = 200

	MinYearLevel = 1
	MaxYearLevel = 9

	MinDurationMinutes = 5
	MaxDurationMinutes = 180

	MaxInstructions = 10

	MinPromptBlocks = 1
	MaxPromptBlocks = 20

	MaxMediaReferences = 5

	McqOptionCount = 4

	MinMarks = 1
	MaxMarks = 10

	MinAcceptedAnswers = 1
	MaxAcceptedAnswers = 10

	MinRubricCriteria = 1
	MaxRubricCriteria = 10

	MinHeadingLevel = 1
	MaxHeadingLevel = 3

	MinListItems = 1
	MaxListItems = 10

	MaxTags = 10
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

var subjects = map[Subject]bool{
	SubjectNumeracy:            true,
	SubjectReading:             true,
	SubjectWriting:             true,
	SubjectLanguageConventions: true,
	SubjectMathematics:         true,
	SubjectEnglish:             true,
	SubjectScience:             true,
	SubjectDigitalTechnologies: true,
	SubjectSpelling:            true,
}

var assessmentTypes = map[AssessmentType]bool{
	AssessmentNaplan: true,
	AssessmentIcas:   true,
}

var packageStatuses = map[PackageStatus]bool{
	StatusDraft:     true,
	StatusPublished: true,
}

var difficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

var responseTypes = map[ResponseType]bool{
	ResponseMcq:      true,
	ResponseShort:    true,
	ResponseExtended: true,
	ResponseNumeric:  true,
}

var blockTypes = map[BlockType]bool{
	BlockText:        true,
	BlockHeading:     true,
	BlockList:        true,
	BlockQuote:       true,
	BlockInstruction: true,
}

var mediaTypes = map[MediaType]bool{
	MediaImage:   true,
	MediaDiagram: true,
	MediaGraph:   true,
}

var placements = map[Placement]bool{
	PlacementAbove:  true,
	PlacementInline: true,
	PlacementBelow:  true,
}

var optionIDSet = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// AllowedMimeTypes is the closed set of media content types the contract
// admits. The binary upload path checks against the same set.
var AllowedMimeTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/svg+xml": true,
	"image/webp":    true,
}
