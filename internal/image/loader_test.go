package image

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/snonux/imgspeak/internal/testutil"
)

func TestLoadImage_Success(t *testing.T) {
	srv := testutil.NewImageServer(t)

	img, err := NewLoader(srv.Client(), nil).LoadImage(context.Background(), srv.URL+"/ship.png")
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if img == nil {
		t.Fatal("LoadImage returned nil image without error")
	}
	if img.Bounds().Dx() != testutil.TestImageWidth {
		t.Errorf("Expected width %d, got %d", testutil.TestImageWidth, img.Bounds().Dx())
	}
}

func TestLoadImage_JPEG(t *testing.T) {
	srv := testutil.NewImageServer(t)

	img, err := NewLoader(srv.Client(), nil).LoadImage(context.Background(), srv.URL+"/ship.jpg")
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if img == nil {
		t.Fatal("LoadImage returned nil image")
	}
}

func TestLoadImage_Failures(t *testing.T) {
	srv := testutil.NewImageServer(t)

	tests := []struct {
		name       string
		url        string
		wantStatus int
		errMsg     string
	}{
		{"not found", srv.URL + "/missing.jpg", http.StatusNotFound, "404"},
		{"server error", srv.URL + "/error", http.StatusInternalServerError, "500"},
		{"undecodable body", srv.URL + "/garbage", http.StatusOK, "failed to decode image"},
		{"oversized dimensions", srv.URL + "/huge.png", http.StatusOK, "maximum pixel count"},
		{"invalid scheme", "ftp://example.com/a.jpg", 0, "scheme must be http or https"},
		{"missing host", "http:///a.jpg", 0, "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewLoader(srv.Client(), nil).LoadImage(context.Background(), tt.url)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if img != nil {
				t.Error("Expected no image on failure")
			}

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected *LoadError, got %T", err)
			}
			if loadErr.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, loadErr.StatusCode)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestLoadImage_TooLarge(t *testing.T) {
	srv := testutil.NewImageServer(t)

	loader := NewLoader(srv.Client(), &LoaderOptions{MaxSizeBytes: 16})
	_, err := loader.LoadImage(context.Background(), srv.URL+"/ship.png")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestLoadImage_TooManyPixels(t *testing.T) {
	srv := testutil.NewImageServer(t)

	_, err := NewLoader(srv.Client(), nil).LoadImage(context.Background(), srv.URL+"/huge.png")
	if !errors.Is(err, ErrTooManyPixels) {
		t.Fatalf("Expected ErrTooManyPixels, got %v", err)
	}

	// The limit is on width*height, not on either side.
	loader := NewLoader(srv.Client(), &LoaderOptions{MaxPixels: int64(testutil.TestImageWidth * testutil.TestImageHeight)})
	if _, err := loader.LoadImage(context.Background(), srv.URL+"/ship.png"); err != nil {
		t.Errorf("Image exactly at the pixel limit should load, got %v", err)
	}
	loader = NewLoader(srv.Client(), &LoaderOptions{MaxPixels: int64(testutil.TestImageWidth*testutil.TestImageHeight - 1)})
	if _, err := loader.LoadImage(context.Background(), srv.URL+"/ship.png"); !errors.Is(err, ErrTooManyPixels) {
		t.Errorf("Expected ErrTooManyPixels one pixel over the limit, got %v", err)
	}
}

func TestLoadImage_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/ship.png"
	srv.Close()

	_, err := NewLoader(nil, nil).LoadImage(context.Background(), url)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *LoadError, got %v", err)
	}
	if loadErr.StatusCode != 0 {
		t.Errorf("Expected no status code, got %d", loadErr.StatusCode)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{800, 600, 1024, 800, 600},
		{2048, 1024, 1024, 1024, 512},
		{1000, 4000, 1000, 250, 1000},
		{5000, 1, 100, 100, 1},
		{640, 480, 0, 640, 480},
	}

	for _, tt := range tests {
		w, h := Fit(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("Fit(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestEncodeForModel(t *testing.T) {
	src := stdimage.NewRGBA(stdimage.Rect(0, 0, 300, 150))
	for x := 0; x < 300; x++ {
		src.Set(x, 75, color.RGBA{R: 200, A: 255})
	}

	data, err := EncodeForModel(src, 100)
	if err != nil {
		t.Fatalf("EncodeForModel failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("Expected JPEG output")
	}

	decoded, _, err := stdimage.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Encoded payload does not decode: %v", err)
	}
	if decoded.Bounds().Dx() != 100 || decoded.Bounds().Dy() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}

	if _, err := EncodeForModel(nil, 100); err == nil {
		t.Error("Expected error for nil image")
	}
}

func TestEncodeForModel_PNGSource(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, stdimage.NewGray(stdimage.Rect(0, 0, 10, 10))); err != nil {
		t.Fatal(err)
	}
	img, _, err := stdimage.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EncodeForModel(img, DefaultMaxSide); err != nil {
		t.Errorf("EncodeForModel failed: %v", err)
	}
}
