package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"papercast/internal/config"
	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/textutil"
)

// Extractor validates uploads and dispatches extraction by file type.
type Extractor struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewExtractor builds an extractor bound to the configured size and type
// limits.
func NewExtractor(cfg *config.Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{cfg: cfg, logger: logging.NewComponentLogger(logger, "extractor")}
}

// Extract reads the file at path and returns its text and metadata. The file
// type is checked against the allow list before any I/O happens, so an
// unsupported extension fails fast even if the file does not exist. onProgress
// may be nil.
func (e *Extractor) Extract(ctx context.Context, path string, onProgress ProgressFunc) (*Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !e.cfg.ExtensionAllowed(ext) {
		return nil, services.Wrap(services.ErrUnsupportedFormat, "extractor", "validate",
			fmt.Sprintf("file type %q is not supported", ext), nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "extractor", "validate", fmt.Sprintf("stat %s", path), err)
	}
	if maxBytes := e.cfg.MaxDocumentBytes(); maxBytes > 0 && info.Size() > maxBytes {
		return nil, services.Wrap(services.ErrValidation, "extractor", "validate",
			fmt.Sprintf("file size %s exceeds limit %s",
				textutil.FormatFileSize(info.Size()), textutil.FormatFileSize(maxBytes)), nil)
	}

	emit(onProgress, ProgressEvent{Status: ProgressStarted, Progress: 0, Message: "extraction started"})
	e.logger.Info("extracting document",
		logging.String("path", path),
		logging.String("type", ext),
		logging.String("size", textutil.FormatFileSize(info.Size())))

	doc := &Document{
		ID:          uuid.NewString(),
		Filename:    filepath.Base(path),
		Path:        path,
		ContentType: ext,
		SizeBytes:   info.Size(),
		ExtractedAt: time.Now().UTC(),
	}

	switch ext {
	case "pdf":
		err = e.extractPDF(ctx, path, doc, onProgress)
	default:
		err = e.extractPlainText(ctx, path, doc, onProgress)
	}
	if err != nil {
		return nil, err
	}

	doc.WordCount = textutil.CountWords(doc.Text)
	emit(onProgress, ProgressEvent{
		Status:     ProgressCompleted,
		Progress:   100,
		TotalPages: doc.PageCount,
		Message:    "extraction complete",
	})
	e.logger.Info("document extracted",
		logging.String(logging.FieldDocumentID, doc.ID),
		logging.Int("pages", doc.PageCount),
		logging.Int("words", doc.WordCount))
	return doc, nil
}

func (e *Extractor) extractPlainText(ctx context.Context, path string, doc *Document, onProgress ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrExtraction, "extractor", "read text", "", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return services.Wrap(services.ErrExtraction, "extractor", "read text", path, err)
	}
	doc.Text = strings.TrimSpace(string(raw))
	doc.PageCount = 1
	doc.Metadata = Metadata{Title: titleFromFilename(doc.Filename)}
	emit(onProgress, ProgressEvent{
		Status:      ProgressExtracting,
		Progress:    90,
		CurrentPage: 1,
		TotalPages:  1,
	})
	return nil
}

func titleFromFilename(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	title := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(base))
	return cases.Title(language.Und).String(title)
}

func emit(onProgress ProgressFunc, event ProgressEvent) {
	if onProgress != nil {
		onProgress(event)
	}
}
