package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"framebrowse/pkg/catalog"
)

type StatsTestSuite struct {
	suite.Suite
	server  *BrowseServer
	catalog *MockCatalog
}

func (s *StatsTestSuite) SetupTest() {
	s.catalog = NewMockCatalog(defaultTestRecords()...)
	s.server = newTestServer(s.catalog, nil)
}

func (s *StatsTestSuite) get() *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	c := s.server.echo.NewContext(req, rec)
	s.NoError(s.server.getStats(c))
	return rec
}

func (s *StatsTestSuite) TestStatsTotals() {
	rec := s.get()
	s.Equal(http.StatusOK, rec.Code)

	var response statsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("test-v1.0.0", response.Version)
	s.Equal(2, response.Groups)
	s.Equal(3, response.Videos)
	s.Equal(int64(4), response.Frames)
	s.Equal(int64(1000), response.TotalSize)
	s.Equal("1.0 kB", response.TotalSizeHuman)
	s.Equal(int64(0), response.Unparseable)
}

func (s *StatsTestSuite) TestStatsCountsUnparseable() {
	s.catalog.records = append(s.catalog.records, testRecord("garbage-key.txt", 5, 0))

	rec := s.get()
	s.Equal(http.StatusOK, rec.Code)

	var response statsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(int64(1), response.Unparseable)
}

func (s *StatsTestSuite) TestStatsCatalogDown() {
	s.catalog.failWith = fmt.Errorf("%w: locked", catalog.ErrDatabaseError)

	rec := s.get()
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}
