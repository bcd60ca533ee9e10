package workflow

import "time"

// StepType selects which external call a step performs.
type StepType string

const (
	StepChat      StepType = "chat"
	StepTTS       StepType = "tts"
	StepImage     StepType = "image"
	StepUserInput StepType = "user-input"
)

// StepStatus is the per-step state machine. Completed and error are
// terminal.
type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusInProgress StepStatus = "in-progress"
	StatusCompleted  StepStatus = "completed"
	StatusError      StepStatus = "error"
)

// RunStatus is the whole-workflow state machine.
type RunStatus string

const (
	RunIdle       RunStatus = "idle"
	RunProcessing RunStatus = "processing"
	RunComplete   RunStatus = "complete"
	RunError      RunStatus = "error"
)

// ChatParams tune a chat completion step.
type ChatParams struct {
	MaxTokens   int      `json:"maxTokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stream      bool     `json:"stream,omitempty"`
}

// TTSParams tune a speech step. Mode "podcast" parses the input as a
// multi-speaker script and stitches it; anything else synthesizes the text
// as a single voice.
type TTSParams struct {
	Mode   string   `json:"mode,omitempty"`
	Voices []string `json:"voices,omitempty"`
	Speed  float64  `json:"speed,omitempty"`
}

// ImageParams tune an image generation step. Style names a cover style from
// the analysis catalog.
type ImageParams struct {
	Style string `json:"style,omitempty"`
	Size  string `json:"size,omitempty"`
}

// Params is a tagged union keyed by the step type; exactly the variant
// matching the type is consulted, the rest are ignored.
type Params struct {
	Chat  *ChatParams  `json:"chat,omitempty"`
	TTS   *TTSParams   `json:"tts,omitempty"`
	Image *ImageParams `json:"image,omitempty"`
}

// StepResult carries a completed step's output. Text holds chat output and
// rendered scripts; media steps record where their artifact landed.
type StepResult struct {
	Text            string  `json:"text,omitempty"`
	AudioPath       string  `json:"audioPath,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	ImagePath       string  `json:"imagePath,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

// Step is one instantiated unit of work in a run.
type Step struct {
	ID           string      `json:"id"`
	Type         StepType    `json:"type"`
	Title        string      `json:"title"`
	Prompt       string      `json:"prompt,omitempty"`
	Params       Params      `json:"params,omitempty"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Status       StepStatus  `json:"status"`
	Result       *StepResult `json:"result,omitempty"`
	ErrMessage   string      `json:"error,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	CompletedAt  *time.Time  `json:"completedAt,omitempty"`
}

// Terminal reports whether the step reached a final state.
func (s *Step) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}
