package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/esimov/ciya"
	"github.com/esimov/ciya/geom"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mouth = geom.NewControlPoints(
	geom.Pt(0.0, 64.0),
	geom.Pt(50.0, 0.0),
	geom.Pt(100.0, 64.0),
	geom.Pt(50.0, 128.0),
)

func testConfig() Config {
	return Config{
		Port:          "8080",
		GinMode:       gin.TestMode,
		MaxUploadSize: 15 << 20,
		MaxImageSize:  ciya.MaxImageSize,
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], []uint8{10, 200, 10, 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		fw, err := mw.CreateFormFile("image", "face.png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ciya", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	msg, _ := res["message"].(string)
	return msg
}

func TestServer_Ping(t *testing.T) {
	s := New(testConfig(), ciya.StaticDetector{Points: mouth}, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong!", message(t, rec))

	_, err := ulid.ParseStrict(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RequestIDIsKept(t *testing.T) {
	s := New(testConfig(), ciya.StaticDetector{Points: mouth}, nil)
	id := ulid.Make().String()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := serve(s, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestServer_Ciya(t *testing.T) {
	s := New(testConfig(), ciya.StaticDetector{Points: mouth}, nil)

	testCases := []struct {
		name        string
		fields      map[string]string
		contentType string
	}{
		{name: "defaults", fields: map[string]string{"aa": "1"}, contentType: "image/png"},
		{name: "cry jpeg", fields: map[string]string{"aa": "2", "emotion": "cry", "format": "jpeg"}, contentType: "image/jpeg"},
		{name: "smile", fields: map[string]string{"aa": "1", "emotion": "smile"}, contentType: "image/png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, pngImage(t, 200, 200), tc.fields))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"))

			img, _, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
			if tc.contentType == "image/png" {
				assert.Equal(t, color.NRGBAModel.Convert(color.NRGBA{R: 10, G: 200, B: 10, A: 255}),
					color.NRGBAModel.Convert(img.At(190, 190)))
			}
		})
	}
}

func TestServer_CiyaErrors(t *testing.T) {
	s := New(testConfig(), ciya.StaticDetector{Points: mouth}, nil)

	testCases := []struct {
		name   string
		data   []byte
		fields map[string]string
		code   int
		msg    string
	}{
		{
			name: "missing image",
			code: http.StatusBadRequest,
			msg:  "An image file is required.",
		},
		{
			name:   "antialias too large",
			data:   pngImage(t, 200, 200),
			fields: map[string]string{"aa": "20"},
			code:   http.StatusBadRequest,
			msg:    "Invalid request.",
		},
		{
			name:   "antialias not a number",
			data:   pngImage(t, 200, 200),
			fields: map[string]string{"aa": "many"},
			code:   http.StatusBadRequest,
			msg:    "Invalid request.",
		},
		{
			name:   "unknown emotion",
			data:   pngImage(t, 200, 200),
			fields: map[string]string{"emotion": "angry"},
			code:   http.StatusBadRequest,
			msg:    "Invalid request.",
		},
		{
			name:   "unknown format",
			data:   pngImage(t, 200, 200),
			fields: map[string]string{"format": "gif"},
			code:   http.StatusBadRequest,
			msg:    "Invalid request.",
		},
		{
			name: "not an image",
			data: []byte("definitely not an image"),
			code: http.StatusBadRequest,
			msg:  "Unsupported image.",
		},
		{
			name:   "no mouth",
			data:   pngImage(t, 40, 40),
			fields: map[string]string{"aa": "1"},
			code:   http.StatusUnprocessableEntity,
			msg:    "No face or mouth detected.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, tc.data, tc.fields))
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.msg, message(t, rec))
		})
	}
}

func TestServer_CiyaMathError(t *testing.T) {
	degenerate := geom.NewControlPoints(
		geom.Pt(10.0, 10.0), geom.Pt(10.0, 10.0), geom.Pt(10.0, 10.0), geom.Pt(10.0, 10.0),
	)
	s := New(testConfig(), ciya.StaticDetector{Points: degenerate}, nil)

	rec := serve(s, uploadRequest(t, pngImage(t, 40, 40), map[string]string{"aa": "1"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Couldn't process this image.", message(t, rec))
}

func TestServer_CiyaImageTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxImageSize = 100
	s := New(cfg, ciya.StaticDetector{Points: mouth}, nil)

	rec := serve(s, uploadRequest(t, pngImage(t, 200, 200), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	s := New(cfg, ciya.StaticDetector{Points: mouth}, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
