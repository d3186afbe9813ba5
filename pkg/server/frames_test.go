package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"framebrowse/pkg/models"
)

type FramesTestSuite struct {
	suite.Suite
	server  *BrowseServer
	catalog *MockCatalog
}

func (s *FramesTestSuite) SetupTest() {
	s.catalog = NewMockCatalog(defaultTestRecords()...)
	s.server = newTestServer(s.catalog, nil)
}

func (s *FramesTestSuite) get(group, video, query string) *httptest.ResponseRecorder {
	target := "/api/groups/" + group + "/videos/" + video + "/frames" + query
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := s.server.echo.NewContext(req, rec)
	c.SetParamNames("group", "video")
	c.SetParamValues(group, video)
	s.NoError(s.server.listFrames(c))
	return rec
}

func (s *FramesTestSuite) TestListFramesFirstPage() {
	rec := s.get("L21", "V001", "")
	s.Equal(http.StatusOK, rec.Code)

	var result models.FramesResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Equal("L21_V001", result.Video.Name)
	s.Require().Len(result.Frames, 2)
	s.Equal(1, result.Frames[0].FrameNumber)
	s.Equal(2, result.Frames[1].FrameNumber)
	s.Equal(int64(2), result.Pagination.Total)
	s.Equal(1, result.Pagination.TotalPages)
}

func (s *FramesTestSuite) TestListFramesPagination() {
	s.catalog = NewMockCatalog()
	for i := 1; i <= 7; i++ {
		s.catalog.records = append(s.catalog.records,
			testRecord("L30_V001/00"+string(rune('0'+i))+".jpg", 10, 0))
	}
	s.server = newTestServer(s.catalog, nil)

	rec := s.get("L30", "V001", "?page=2&limit=3")
	s.Equal(http.StatusOK, rec.Code)

	var result models.FramesResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Require().Len(result.Frames, 3)
	s.Equal(4, result.Frames[0].FrameNumber)
	s.Equal(2, result.Pagination.Page)
	s.Equal(3, result.Pagination.TotalPages)
	s.Equal(int64(7), result.Pagination.Total)
}

func (s *FramesTestSuite) TestListFramesPagePastEnd() {
	rec := s.get("L21", "V001", "?page=9")
	s.Equal(http.StatusOK, rec.Code)

	var result models.FramesResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Empty(result.Frames)
	s.Equal(int64(2), result.Pagination.Total)
}

func (s *FramesTestSuite) TestListFramesUnknownVideo() {
	rec := s.get("L21", "V099", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *FramesTestSuite) TestListFramesInvalidPage() {
	rec := s.get("L21", "V001", "?page=0")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *FramesTestSuite) TestListFramesMalformedLimit() {
	rec := s.get("L21", "V001", "?limit=huge")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *FramesTestSuite) TestListFramesOversizePage() {
	rec := s.get("L21", "V001", "?limit=9999")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestFramesSuite(t *testing.T) {
	suite.Run(t, new(FramesTestSuite))
}
