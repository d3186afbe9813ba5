package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"framebrowse/pkg/search"
)

type HealthTestSuite struct {
	suite.Suite
	catalog *MockCatalog
}

func (s *HealthTestSuite) SetupTest() {
	s.catalog = NewMockCatalog(defaultTestRecords()...)
}

func (s *HealthTestSuite) get(server *BrowseServer) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := server.echo.NewContext(req, rec)
	s.NoError(server.getHealth(c))
	return rec
}

func (s *HealthTestSuite) TestHealthyWithoutSearch() {
	rec := s.get(newTestServer(s.catalog, nil))
	s.Equal(http.StatusOK, rec.Code)

	var response healthResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("ok", response.Status)
	s.Equal("test-v1.0.0", response.Version)
	s.Equal("disabled", response.Search)
}

func (s *HealthTestSuite) TestHealthySearchUp() {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	rec := s.get(newTestServer(s.catalog, search.NewClient(backend.URL, time.Second)))
	s.Equal(http.StatusOK, rec.Code)

	var response healthResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("up", response.Search)
}

func (s *HealthTestSuite) TestDegradedSearchDown() {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	rec := s.get(newTestServer(s.catalog, search.NewClient(backend.URL, time.Second)))
	s.Equal(http.StatusOK, rec.Code)

	var response healthResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("ok", response.Status)
	s.Equal("down", response.Search)
}

func (s *HealthTestSuite) TestCatalogDown() {
	s.catalog.failWith = errors.New("locked")

	rec := s.get(newTestServer(s.catalog, nil))
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	var response healthResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("down", response.Status)
}

func TestHealthSuite(t *testing.T) {
	suite.Run(t, new(HealthTestSuite))
}
