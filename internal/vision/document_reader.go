package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

const jpegQuality = 85

// DocumentReader converts claim documents (PDF receipts, bill photos) into
// JPEG page images suitable for a multimodal extraction request.
type DocumentReader struct {
	logger *zap.Logger
}

// NewDocumentReader creates a document reader.
func NewDocumentReader(logger *zap.Logger) *DocumentReader {
	return &DocumentReader{logger: logger}
}

// ToImages renders a claim document into one JPEG per page. Image files are
// re-encoded and returned as a single page.
func (r *DocumentReader) ToImages(path string) ([][]byte, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("document not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return r.renderPDF(path)
	case ".jpg", ".jpeg", ".png":
		return r.readImageFile(path, ext)
	default:
		return nil, fmt.Errorf("unsupported document type: %s", ext)
	}
}

// renderPDF rasterizes every PDF page with mupdf.
func (r *DocumentReader) renderPDF(path string) ([][]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	r.logger.Debug("Rendering PDF pages", zap.String("path", path), zap.Int("pages", pageCount))

	var pages [][]byte
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		img, err := doc.Image(pageNum)
		if err != nil {
			r.logger.Warn("Failed to render PDF page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		encoded, err := encodeJPEG(img)
		if err != nil {
			r.logger.Warn("Failed to encode PDF page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		pages = append(pages, encoded)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no renderable pages in %s", path)
	}
	return pages, nil
}

func (r *DocumentReader) readImageFile(path, ext string) ([][]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var img image.Image
	switch ext {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	case ".png":
		img, err = png.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	encoded, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}
	return [][]byte{encoded}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
