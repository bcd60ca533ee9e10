package document

import "time"

// Metadata carries the descriptive fields a source file declares about
// itself. All fields are optional; PDF files populate what their info
// dictionary provides.
type Metadata struct {
	Title            string   `json:"title,omitempty"`
	Author           string   `json:"author,omitempty"`
	Subject          string   `json:"subject,omitempty"`
	Creator          string   `json:"creator,omitempty"`
	Producer         string   `json:"producer,omitempty"`
	CreationDate     string   `json:"creationDate,omitempty"`
	ModificationDate string   `json:"modificationDate,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

// Document is the extraction result for one source file.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Text        string    `json:"text"`
	PageCount   int       `json:"pageCount"`
	WordCount   int       `json:"wordCount"`
	Metadata    Metadata  `json:"metadata"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Progress statuses reported while a document is processed.
const (
	ProgressStarted    = "started"
	ProgressExtracting = "extracting"
	ProgressCompleted  = "completed"
)

// ProgressEvent reports extraction progress. Progress runs 0 to 100;
// CurrentPage and TotalPages are only meaningful for paged formats.
type ProgressEvent struct {
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	CurrentPage int     `json:"currentPage,omitempty"`
	TotalPages  int     `json:"totalPages,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// ProgressFunc observes extraction progress. Implementations must be fast;
// they run inline with extraction.
type ProgressFunc func(ProgressEvent)
