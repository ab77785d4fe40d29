package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jeeveshs/steelsplit/internal/meshio"
	"github.com/jeeveshs/steelsplit/internal/meshkit"
	"github.com/jeeveshs/steelsplit/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubeMesh(size float64) meshkit.Mesh {
	h := size / 2
	v := []meshkit.Vec{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	f := []meshkit.Face{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	}
	return meshkit.NewMesh(v, f)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	return &Server{
		Store:     registry.NewMemoryStore(),
		UploadDir: dir,
		OutputDir: dir,
	}
}

func registerCube(t *testing.T, s *Server) string {
	t.Helper()
	path := s.UploadDir + "/cube.stl"
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, meshio.Export(f, cubeMesh(20), true))
	require.NoError(t, f.Close())
	return s.Store.Put(path)
}

func TestHandlePrintersListsCatalog(t *testing.T) {
	s := newTestServer(t)
	e := NewServer(s)

	req := httptest.NewRequest(http.MethodGet, "/printers", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []printerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 4)
}

func TestHandleSuggestSplitUnknownFileReturns404(t *testing.T) {
	s := newTestServer(t)
	e := NewServer(s)

	body, _ := json.Marshal(suggestRequest{FileID: "not-registered"})
	req := httptest.NewRequest(http.MethodPost, "/suggest_split", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSuggestSplitReturnsAxisAlignedPlane(t *testing.T) {
	s := newTestServer(t)
	id := registerCube(t, s)
	e := NewServer(s)

	body, _ := json.Marshal(suggestRequest{FileID: id, Axis: "z"})
	req := httptest.NewRequest(http.MethodPost, "/suggest_split", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, [3]float64{0, 0, 1}, out.Normal)
}

func TestHandlePerformSplitProducesTwoParts(t *testing.T) {
	s := newTestServer(t)
	id := registerCube(t, s)
	e := NewServer(s)

	body, _ := json.Marshal(performRequest{FileID: id, Origin: [3]float64{}, Normal: [3]float64{1, 0, 0}})
	req := httptest.NewRequest(http.MethodPost, "/perform_split", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out performResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.PartA.ID)
	assert.NotEmpty(t, out.PartB.ID)
	assert.Greater(t, out.PartA.Volume, 0.0)
	assert.Greater(t, out.PartB.Volume, 0.0)
}
