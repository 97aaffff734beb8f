package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"jigsaw-bot/config"
	app "jigsaw-bot/internal/application"
	"jigsaw-bot/internal/classifier"
	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/geometry"
	"jigsaw-bot/internal/infrastructure/storage"
	"jigsaw-bot/internal/matcher"
	"jigsaw-bot/internal/testutil"
	"jigsaw-bot/internal/worker"
)

var (
	rightIn = [entity.EdgeCount]entity.EdgeType{entity.EdgeFlat, entity.EdgeFlat, entity.EdgeFlat, entity.EdgeIn}
	leftOut = [entity.EdgeCount]entity.EdgeType{entity.EdgeFlat, entity.EdgeOut, entity.EdgeFlat, entity.EdgeFlat}
)

type staticSegmenter struct {
	segments []entity.SegmentedPiece
}

func (s staticSegmenter) Segment(ctx context.Context, imageData []byte) ([]entity.SegmentedPiece, error) {
	return s.segments, nil
}

type dpSimplifier struct{}

func (dpSimplifier) Simplify(points []image.Point, epsilon float64) []image.Point {
	return geometry.SimplifyClosed(points, epsilon)
}

func setupRouter(t *testing.T) (http.Handler, *storage.MemoryPieceRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := storage.NewMemoryPieceRepository()
	seg := staticSegmenter{segments: []entity.SegmentedPiece{
		{Boundary: testutil.PieceBoundary(200, rightIn)},
		{Boundary: testutil.PieceBoundary(200, leftOut)},
	}}
	pieces := app.NewPieceService(repo, seg, dpSimplifier{}, nil, nil, classifier.New(classifier.DefaultConfig()), 20)

	pool := worker.NewPool(2)
	pool.Start()
	t.Cleanup(pool.Close)
	matches := app.NewMatchService(repo, matcher.New(matcher.DefaultConfig()), pool, nil)

	cfg := &config.Config{RequestTimeout: 5 * time.Second, MaxRequestBodySize: 1 << 20}
	return NewHandler(pieces, matches, cfg), repo
}

func upload(t *testing.T, h http.Handler, prefix string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("photo", "pieces.jpg")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, image.NewGray(image.Rect(0, 0, 8, 8))))
	require.NoError(t, mw.WriteField("prefix", prefix))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pieces", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func do(h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h, _ := setupRouter(t)

	w := do(h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "available")
}

func TestUploadAndMatch(t *testing.T) {
	h, _ := setupRouter(t)

	w := upload(t, h, "box")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded struct {
		Pieces []OutcomeResponse `json:"pieces"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	require.Len(t, uploaded.Pieces, 2)
	require.Equal(t, "box-0", uploaded.Pieces[0].ID)
	require.Empty(t, uploaded.Pieces[0].Error)
	require.Equal(t, []string{"flat", "flat", "flat", "in"}, uploaded.Pieces[0].Piece.Edges)

	w = do(h, http.MethodGet, "/pieces/box-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var piece PieceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &piece))
	require.True(t, piece.Classified)
	require.Equal(t, []string{"flat", "out", "flat", "flat"}, piece.Edges)

	body, err := json.Marshal(MatchRequest{
		A: entity.EdgeRef{PieceID: "box-0", Edge: entity.EdgeRight},
		B: entity.EdgeRef{PieceID: "box-1", Edge: entity.EdgeLeft},
	})
	require.NoError(t, err)
	w = do(h, http.MethodPost, "/match", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m entity.EdgeMatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.True(t, m.Result.Match)

	w = do(h, http.MethodGet, "/pieces/box-0/matches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		Matches []entity.EdgeMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all.Matches, 1)
}

func TestClassifyAndRotate(t *testing.T) {
	h, repo := setupRouter(t)

	raw, err := entity.NewPiece("p", testutil.PieceBoundary(200, leftOut), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), raw))

	w := do(h, http.MethodGet, "/pieces/p", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"classified":false`)

	w = do(h, http.MethodPost, "/pieces/p/classify", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"classified":true`)

	w = do(h, http.MethodPost, "/pieces/p/rotate?degrees=abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodPost, "/pieces/p/rotate?degrees=180", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestErrors(t *testing.T) {
	h, _ := setupRouter(t)
	upload(t, h, "box")

	tests := []struct {
		name     string
		method   string
		path     string
		body     []byte
		wantCode int
		wantType string
	}{
		{"missing piece", http.MethodGet, "/pieces/nope", nil, http.StatusNotFound, "not_found"},
		{"bad json", http.MethodPost, "/match", []byte("{"), http.StatusBadRequest, "validation"},
		{"same piece", http.MethodPost, "/match", []byte(`{"a":{"piece_id":"box-0","edge":3},"b":{"piece_id":"box-0","edge":1}}`), http.StatusUnprocessableEntity, "incompatible_edges"},
		{"flat edge", http.MethodPost, "/match", []byte(`{"a":{"piece_id":"box-0","edge":0},"b":{"piece_id":"box-1","edge":1}}`), http.StatusUnprocessableEntity, "incompatible_edges"},
		{"render without renderer", http.MethodGet, "/pieces/box-0/render", nil, http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tt.wantType, resp.Type)
		})
	}
}

func TestUploadWithoutPhoto(t *testing.T) {
	h, _ := setupRouter(t)

	w := do(h, http.MethodPost, "/pieces", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadUnsupportedFormat(t *testing.T) {
	h, _ := setupRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("photo", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pieces", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
