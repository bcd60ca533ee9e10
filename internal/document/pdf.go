package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"papercast/internal/logging"
	"papercast/internal/services"
)

func pdfConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// extractPDF walks the document page by page. A page that fails to decode is
// replaced with a placeholder so the rest of the document still comes
// through; only a file that cannot be opened at all fails the extraction.
func (e *Extractor) extractPDF(ctx context.Context, path string, doc *Document, onProgress ProgressFunc) error {
	file, err := os.Open(path)
	if err != nil {
		return services.Wrap(services.ErrExtraction, "extractor", "open pdf", path, err)
	}
	defer file.Close()

	doc.Metadata = e.readPDFMetadata(file, path)
	if doc.Metadata.Title == "" {
		doc.Metadata.Title = titleFromFilename(doc.Filename)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return services.Wrap(services.ErrExtraction, "extractor", "open pdf", path, err)
	}
	conf := pdfConfiguration()
	conf.Cmd = model.EXTRACTCONTENT
	pctx, err := api.ReadValidateAndOptimize(file, conf)
	if err != nil {
		return services.Wrap(services.ErrExtraction, "extractor", "open pdf", path, err)
	}
	pageCount := pctx.PageCount
	if pageCount <= 0 {
		return services.Wrap(services.ErrExtraction, "extractor", "open pdf", "document has no pages", nil)
	}
	doc.PageCount = pageCount

	pages := make([]string, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrExtraction, "extractor", "extract pages", "", err)
		}
		text, pageErr := e.extractPDFPage(pctx, page)
		if pageErr != nil {
			e.logger.Warn("page extraction failed",
				logging.Int("page", page),
				logging.Error(pageErr))
			text = fmt.Sprintf("[Error extracting page %d]", page)
		}
		pages = append(pages, text)
		emit(onProgress, ProgressEvent{
			Status:      ProgressExtracting,
			Progress:    float64(page) / float64(pageCount) * 100,
			CurrentPage: page,
			TotalPages:  pageCount,
		})
	}

	doc.Text = strings.TrimSpace(strings.Join(pages, "\n\n"))
	return nil
}

func (e *Extractor) readPDFMetadata(file *os.File, path string) Metadata {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Metadata{}
	}
	info, err := api.PDFInfo(file, path, nil, pdfConfiguration())
	if err != nil || info == nil {
		// Metadata is best effort; a file with a broken info dictionary can
		// still have extractable pages.
		e.logger.Warn("pdf metadata unavailable", logging.Error(err))
		return Metadata{}
	}
	return Metadata{
		Title:            strings.TrimSpace(info.Title),
		Author:           strings.TrimSpace(info.Author),
		Subject:          strings.TrimSpace(info.Subject),
		Creator:          strings.TrimSpace(info.Creator),
		Producer:         strings.TrimSpace(info.Producer),
		CreationDate:     strings.TrimSpace(info.CreationDate),
		ModificationDate: strings.TrimSpace(info.ModificationDate),
		Keywords:         info.Keywords,
	}
}

// extractPDFPage reads the consolidated content stream of one page and
// decodes its text operators.
func (e *Extractor) extractPDFPage(pctx *model.Context, page int) (string, error) {
	reader, err := pdfcpu.ExtractPageContent(pctx, page)
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return DecodePageText(raw), nil
}
