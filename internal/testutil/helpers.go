package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// Dimensions of the image served by NewImageServer
const (
	TestImageWidth  = 64
	TestImageHeight = 48

	// HugeImageSide is the width and height declared by /huge.png
	HugeImageSide = 60000
)

// ImageServer serves test images and counts the requests it receives.
type ImageServer struct {
	*httptest.Server
	requests int32
}

// Requests returns the number of requests served so far.
func (s *ImageServer) Requests() int {
	return int(atomic.LoadInt32(&s.requests))
}

// NewImageServer starts an HTTP server with the routes
//
//	/ship.png  200, a PNG image
//	/ship.jpg  200, a JPEG image
//	/huge.png  200, a PNG header declaring HugeImageSide x HugeImageSide
//	/garbage   200, a body that is not an image
//	/error     500
//	anything else 404
//
// The server is closed when the test finishes.
func NewImageServer(t *testing.T) *ImageServer {
	t.Helper()

	pngData := GenerateImageData(t, "png")
	jpgData := GenerateImageData(t, "jpeg")

	s := &ImageServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requests, 1)
		switch r.URL.Path {
		case "/ship.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngData)
		case "/ship.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(jpgData)
		case "/huge.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(PNGHeader(HugeImageSide, HugeImageSide))
		case "/garbage":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("<html>definitely not a jpeg</html>"))
		case "/error":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

// GenerateImageData encodes a small gradient image as "png" or "jpeg".
func GenerateImageData(t *testing.T, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, TestImageWidth, TestImageHeight))
	for y := 0; y < TestImageHeight; y++ {
		for x := 0; x < TestImageWidth; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 180, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// PNGHeader returns the PNG signature followed by an 8-bit grayscale IHDR
// chunk for the given dimensions. It carries no pixel data.
func PNGHeader(width, height uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth; color type, compression, filter, interlace stay 0

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

// GenerateAudioData generates mock audio data
func GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !bytes.Equal(actual, expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertNoTempFiles fails if dir contains leftovers of an interrupted write.
func AssertNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp*"))
	if err != nil {
		t.Fatalf("Failed to glob %s: %v", dir, err)
	}
	if len(matches) > 0 {
		t.Errorf("Unexpected temporary files in %s: %v", dir, matches)
	}
}
