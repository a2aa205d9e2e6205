package sitecms

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessCoverRejectsOversized(t *testing.T) {
	// The size check must fire before any decoding: a reader that blows
	// up on Read proves nothing was consumed.
	src := failReader{}
	_, err := ProcessCover(src, "image/jpeg", 6<<20)
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("err = %v, want ErrUploadTooLarge", err)
	}
}

type failReader struct{}

func (failReader) Read([]byte) (int, error) {
	return 0, errors.New("read must not be called for oversized uploads")
}

func TestProcessCoverRejectsNonImage(t *testing.T) {
	_, err := ProcessCover(strings.NewReader("%PDF-1.4"), "application/pdf", 100)
	if !errors.Is(err, ErrUploadNotImage) {
		t.Fatalf("declared type: err = %v, want ErrUploadNotImage", err)
	}

	_, err = ProcessCover(strings.NewReader("not an image"), "image/png", 12)
	if !errors.Is(err, ErrUploadNotImage) {
		t.Fatalf("undecodable body: err = %v, want ErrUploadNotImage", err)
	}
}

func TestProcessCoverResizesWideImages(t *testing.T) {
	raw := encodePNG(t, 2400, 1200)
	ci, err := ProcessCover(bytes.NewReader(raw), "image/png", int64(len(raw)))
	if err != nil {
		t.Fatalf("ProcessCover failed: %v", err)
	}
	if ci.Width != 1200 {
		t.Errorf("Width = %d, want 1200", ci.Width)
	}
	if ci.Height != 600 {
		t.Errorf("Height = %d, want 600 (aspect preserved)", ci.Height)
	}
	if ci.ContentType != "image/jpeg" {
		t.Errorf("ContentType = %q, want image/jpeg", ci.ContentType)
	}
}

func TestProcessCoverKeepsSmallImages(t *testing.T) {
	raw := encodePNG(t, 640, 480)
	ci, err := ProcessCover(bytes.NewReader(raw), "image/png", int64(len(raw)))
	if err != nil {
		t.Fatalf("ProcessCover failed: %v", err)
	}
	if ci.Width != 640 || ci.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", ci.Width, ci.Height)
	}
}

func TestDataURL(t *testing.T) {
	ci := CoverImage{ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}
	got := ci.DataURL()
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Errorf("DataURL = %q", got)
	}
}

func TestUploadErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrUploadTooLarge, "Ukuran file maksimal 5MB."},
		{ErrUploadNotImage, "File harus berupa gambar."},
		{ErrUploadUnauthorized, "Tidak memiliki izin untuk upload. Periksa kredensial penyimpanan."},
		{ErrUploadCanceled, "Upload dibatalkan."},
		{ErrUploadQuotaExceeded, "Kuota penyimpanan habis."},
		{ErrUploadChecksumInvalid, "File rusak, coba upload ulang."},
		{ErrUploadRetryLimitExceeded, "Koneksi bermasalah, coba lagi."},
		{errors.New("anything else"), "Gagal upload gambar."},
	}
	for _, tt := range tests {
		if got := UploadErrorMessage(tt.err); got != tt.want {
			t.Errorf("UploadErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
