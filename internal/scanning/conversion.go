package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const (
	mimePDF  = "application/pdf"
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
)

// normalizeMIME lowercases and trims a content type, defaulting to JPEG
func normalizeMIME(contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" {
		return mimeJPEG
	}
	return mimeType
}

// isHEIC checks the ftyp box brand at offset 4, falling back to the MIME type
func isHEIC(data []byte, mimeType string) bool {
	if len(data) >= 12 && string(data[4:8]) == "ftyp" {
		switch string(data[8:12]) {
		case "heic", "heif", "mif1", "msf1":
			return true
		}
	}
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// renderPDF renders the first page of a PDF. Invoices from supported vendors
// carry their header and items on page one.
func renderPDF(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

// decodeImage decodes HEIC/HEIF with the pure Go decoder and everything else
// with the registered standard decoders
func decodeImage(data []byte, mimeType string) (image.Image, error) {
	if isHEIC(data, mimeType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF: %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// toPNG returns the document as a single PNG image, as the vision models expect
func toPNG(data []byte, contentType string) ([]byte, error) {
	mimeType := normalizeMIME(contentType)
	if mimeType == mimePNG && !isHEIC(data, mimeType) {
		return data, nil
	}

	var (
		img image.Image
		err error
	)
	if mimeType == mimePDF {
		img, err = renderPDF(data)
	} else {
		img, err = decodeImage(data, mimeType)
	}
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// prepareForTextract passes through the formats Textract reads natively and
// converts everything else (HEIC, GIF) to PNG
func prepareForTextract(data []byte, contentType string) ([]byte, error) {
	mimeType := normalizeMIME(contentType)
	if isHEIC(data, mimeType) {
		img, err := decodeImage(data, mimeType)
		if err != nil {
			return nil, err
		}
		return encodePNG(img)
	}

	switch mimeType {
	case mimePDF, mimePNG, mimeJPEG, "image/jpg", "image/tiff":
		return data, nil
	}
	img, err := decodeImage(data, mimeType)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}
