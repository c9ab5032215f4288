package handler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sitepress/internal/storage"
)

func multipartImage(t *testing.T, contentType string, data []byte, bucket string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if bucket != "" {
		if err := mw.WriteField("bucket", bucket); err != nil {
			t.Fatalf("write bucket: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func postUpload(t *testing.T, s *testServer, cookies []*http.Cookie, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestUploadImageStoresFile(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)

	body, ct := multipartImage(t, "image/png", pngBytes(t), storage.BucketArticleImages)
	w := postUpload(t, s, cookies, body, ct)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		URL   string        `json:"url"`
		Image storage.Image `json:"image"`
	}
	decodeBody(t, w, &resp)
	if !strings.HasPrefix(resp.URL, "/static/uploads/article-images/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Fatalf("unexpected url %q", resp.URL)
	}
	if resp.Image.Width != 3 || resp.Image.Height != 2 {
		t.Fatalf("unexpected dimensions %dx%d", resp.Image.Width, resp.Image.Height)
	}
	if _, err := os.Stat(filepath.Join(s.store.Dir(), filepath.FromSlash(resp.Image.Path))); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestUploadImageRejectsNonImages(t *testing.T) {
	s := setupHandlerTest(t, Options{})
	cookies := s.signIn(t)

	body, ct := multipartImage(t, "text/html", []byte("<script>alert(1)</script>"), "")
	w := postUpload(t, s, cookies, body, ct)
	assertErrorMessage(t, w, http.StatusBadRequest, "paste URL manually")

	body, ct = multipartImage(t, "image/png", []byte("not really a png"), "")
	w = postUpload(t, s, cookies, body, ct)
	assertErrorMessage(t, w, http.StatusBadRequest, "paste URL manually")
}

func TestUploadImageRequiresSession(t *testing.T) {
	s := setupHandlerTest(t, Options{})

	body, ct := multipartImage(t, "image/png", pngBytes(t), "")
	w := postUpload(t, s, nil, body, ct)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
