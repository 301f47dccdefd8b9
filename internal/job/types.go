package job

import "time"

// Status is the overall state of a job.
type Status string

const (
	StatusStarted    Status = "started"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// StageName identifies one step of the pipeline.
type StageName string

const (
	StageConversion    StageName = "conversion"
	StageTranscription StageName = "transcription"
	StageSummary       StageName = "summary"
	StageAttach        StageName = "attach"
)

// Stages returns every stage in pipeline order.
func Stages() []StageName {
	return []StageName{StageConversion, StageTranscription, StageSummary, StageAttach}
}

// StageStatus is the state of one stage.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageProcessing StageStatus = "processing"
	StageCompleted  StageStatus = "completed"
	StageError      StageStatus = "error"
)

type StageState struct {
	Status     StageStatus `json:"status"`
	OutputPath string      `json:"outputPath,omitempty"`
	Error      string      `json:"error,omitempty"`
	StartedAt  *time.Time  `json:"startedAt,omitempty"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

// Metadata is supplied at submission and never changes afterwards.
type Metadata struct {
	ClientName       string    `json:"clientName,omitempty"`
	CaseNumber       string    `json:"caseNumber,omitempty"`
	MeetingNotes     string    `json:"meetingNotes,omitempty"`
	OriginalFileName string    `json:"originalFileName"`
	UploadedAt       time.Time `json:"uploadedAt"`
	AttachRequested  bool      `json:"attachRequested"`
}

type Results struct {
	ConvertedPath  string `json:"convertedPath,omitempty"`
	Transcription  string `json:"transcription,omitempty"`
	TranscriptPath string `json:"transcriptPath,omitempty"`
	Summary        string `json:"summary,omitempty"`
	SummaryPath    string `json:"summaryPath,omitempty"`
	Language       string `json:"language,omitempty"`
}

// Job is the record of one pipeline run.
type Job struct {
	ID             string                   `json:"id"`
	SourceFilePath string                   `json:"sourceFilePath"`
	Metadata       Metadata                 `json:"metadata"`
	Status         Status                   `json:"status"`
	Stages         map[StageName]StageState `json:"stages"`
	Results        Results                  `json:"results"`
	ErrorDetail    string                   `json:"errorDetail,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}
