package sitecms

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxCoverWidth      = 1200
	coverJPEGQuality   = 80
	maxCoverUploadSize = 5 << 20 // 5MB
	coverFolder        = "covers"
)

// CoverImage is a processed cover ready for upload: resized to at most
// maxCoverWidth and re-encoded as JPEG to bound storage and transfer cost.
type CoverImage struct {
	Width       int
	Height      int
	Data        []byte
	ContentType string
}

// ProcessCover validates and normalizes an uploaded image. size and
// declaredType come from the multipart header and are checked before any
// decoding work; oversized or non-image uploads are rejected outright.
func ProcessCover(src io.Reader, declaredType string, size int64) (CoverImage, error) {
	if size > maxCoverUploadSize {
		return CoverImage{}, ErrUploadTooLarge
	}
	if declaredType != "" && !strings.HasPrefix(declaredType, "image/") {
		return CoverImage{}, ErrUploadNotImage
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return CoverImage{}, fmt.Errorf("%w: %v", ErrUploadNotImage, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxCoverWidth {
		newH := h * maxCoverWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxCoverWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxCoverWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: coverJPEGQuality}); err != nil {
		return CoverImage{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return CoverImage{
		Width:       w,
		Height:      h,
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}

// DataURL renders the processed image as an inline data URL. Used only as
// a non-persisted preview when object storage is unreachable; large inline
// payloads are never written into the dataset.
func (ci CoverImage) DataURL() string {
	return "data:" + ci.ContentType + ";base64," + base64.StdEncoding.EncodeToString(ci.Data)
}

// UploadErrorMessage maps a classified upload error to its user-facing
// message.
func UploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUploadTooLarge):
		return "Ukuran file maksimal 5MB."
	case errors.Is(err, ErrUploadNotImage):
		return "File harus berupa gambar."
	case errors.Is(err, ErrUploadUnauthorized):
		return "Tidak memiliki izin untuk upload. Periksa kredensial penyimpanan."
	case errors.Is(err, ErrUploadCanceled):
		return "Upload dibatalkan."
	case errors.Is(err, ErrUploadQuotaExceeded):
		return "Kuota penyimpanan habis."
	case errors.Is(err, ErrUploadChecksumInvalid):
		return "File rusak, coba upload ulang."
	case errors.Is(err, ErrUploadRetryLimitExceeded):
		return "Koneksi bermasalah, coba lagi."
	default:
		return "Gagal upload gambar."
	}
}
