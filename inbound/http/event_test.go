package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"seatmap/catalog"
	"seatmap/common/constant"
	"seatmap/common/contract/mocks"
	"seatmap/common/vars"
	"seatmap/model"
	"seatmap/outbound/cache"
	"seatmap/seatmap"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redismock/v9"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EventHttpTestSuite struct {
	suite.Suite

	Cache     *redis.Client
	CacheMock redismock.ClientMock

	Publisher *mocks.MockPublisher
	Validate  *validator.Validate

	mux       *http.ServeMux
	eventHttp *EventHttp
}

func (s *EventHttpTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())

	rdb, mock := redismock.NewClientMock()
	s.Cache = rdb
	s.CacheMock = mock

	s.Publisher = mocks.NewMockPublisher(ctrl)
	s.Validate = validator.New()

	eventCatalog := catalog.New(nil, cache.NewRedisStore(rdb, "seatmap:", time.Minute), nil)

	s.mux = http.NewServeMux()
	s.eventHttp = RegisterEventHttp(s.mux, eventCatalog, s.Publisher, s.Validate, func() string { return "1760778000000" })
	s.eventHttp.TimeNow = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }

	vars.SetEvents(testEvents(), "1760777000000", time.Now())
}

func (s *EventHttpTestSuite) TearDownTest() {
	vars.SetEvents(nil, "", time.Time{})

	if err := s.Cache.Close(); err != nil {
		s.T().Fatalf("failed to close redis mock: %v", err)
	}
}

func TestEventHttpTestSuite(t *testing.T) {
	suite.Run(t, new(EventHttpTestSuite))
}

func testEvents() []model.Event {
	return []model.Event{
		{
			Title:     "Symphony No. 9",
			Date:      "2026-11-02",
			Location:  "Main Hall",
			Link:      "https://tickets.example.com/symphony",
			Available: true,
			MinPrice:  "25.50",
			Seats: model.SeatList{
				{Price: "25.50", RowNum: "A", SeatNum: "A1", HorizontalPosition: 10, VerticalPosition: 20, Available: true},
				{Price: "30", RowNum: "B", SeatNum: "B2", HorizontalPosition: -5, VerticalPosition: 40, Available: false},
			},
		},
		{
			Title:     "Open Air Jazz",
			Date:      "2026-11-09",
			Location:  "Park Stage",
			Link:      "https://tickets.example.com/jazz",
			Available: true,
			MinPrice:  "15",
			Seats:     model.GeneralAdmission("General admission"),
		},
	}
}

func (s *EventHttpTestSuite) serve(method string, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()

	s.mux.ServeHTTP(w, req)

	return w
}

func (s *EventHttpTestSuite) TestList() {
	w := s.serve(http.MethodGet, "/api/events", "")

	s.Equal(http.StatusOK, w.Code)

	var events []model.Event
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &events))
	s.Equal(testEvents(), events)
}

func (s *EventHttpTestSuite) TestList_NoEventsLoaded() {
	vars.SetEvents(nil, "", time.Time{})

	w := s.serve(http.MethodGet, "/api/events", "")

	s.Equal(http.StatusOK, w.Code)
	s.Equal(`[]`, strings.TrimSpace(w.Body.String()))
}

func (s *EventHttpTestSuite) TestConfigurations() {
	configurations := seatmap.GetAllEventConfigurations(testEvents())
	expected, err := json.Marshal(configurations)
	s.Require().NoError(err)
	entry, err := json.Marshal(cache.Entry{Token: "1760777000000", Configurations: configurations})
	s.Require().NoError(err)

	s.Run("cache miss", func() {
		s.CacheMock.ExpectGet("seatmap:configurations").RedisNil()
		s.CacheMock.ExpectSet("seatmap:configurations", string(entry), time.Minute).SetVal("OK")

		w := s.serve(http.MethodGet, "/api/events/configurations", "")

		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(string(expected), w.Body.String())
		s.NoError(s.CacheMock.ExpectationsWereMet())
	})

	s.Run("cache hit", func() {
		s.CacheMock.ExpectGet("seatmap:configurations").SetVal(string(entry))

		w := s.serve(http.MethodGet, "/api/events/configurations", "")

		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(string(expected), w.Body.String())
		s.NoError(s.CacheMock.ExpectationsWereMet())
	})

	s.Run("entry from another document", func() {
		stale, err := json.Marshal(cache.Entry{
			Token:          "1760778060000",
			Configurations: seatmap.GetAllEventConfigurations(testEvents()[1:]),
		})
		s.Require().NoError(err)
		s.CacheMock.ExpectGet("seatmap:configurations").SetVal(string(stale))

		w := s.serve(http.MethodGet, "/api/events/configurations", "")

		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(string(expected), w.Body.String())
		s.NoError(s.CacheMock.ExpectationsWereMet())
	})
}

func (s *EventHttpTestSuite) TestConfiguration() {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "seated event",
			target:         "/api/events/0/configuration",
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"seatConfig": [
					{"id": 1, "label": "A1", "x": 10, "y": 20, "color": "#e0e0e0", "status": "available", "price": 25.5},
					{"id": 2, "label": "B2", "x": -5, "y": 40, "color": "#ff6b6b", "status": "occupied", "price": 30}
				],
				"availabilityCounts": {"available": 1, "unavailable": 1, "total": 2},
				"coordinateBounds": {"minX": -5, "maxX": 10, "minY": 20, "maxY": 40},
				"eventInfo": {
					"title": "Symphony No. 9",
					"date": "2026-11-02",
					"location": "Main Hall",
					"link": "https://tickets.example.com/symphony",
					"available": true,
					"min_price": "25.50",
					"seats": [
						{"price": "25.50", "row_num": "A", "seat_num": "A1", "horizontal_position": 10, "vertical_position": 20, "available": true},
						{"price": "30", "row_num": "B", "seat_num": "B2", "horizontal_position": -5, "vertical_position": 40, "available": false}
					]
				},
				"text": null
			}`,
		},
		{
			name:           "general admission event",
			target:         "/api/events/1/configuration",
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"seatConfig": [],
				"availabilityCounts": {"available": 0, "unavailable": 0, "total": 0},
				"coordinateBounds": {"minX": 0, "maxX": 0, "minY": 0, "maxY": 0},
				"eventInfo": {
					"title": "Open Air Jazz",
					"date": "2026-11-09",
					"location": "Park Stage",
					"link": "https://tickets.example.com/jazz",
					"available": true,
					"min_price": "15",
					"seats": "General admission"
				},
				"text": true
			}`,
		},
		{
			name:           "out of range",
			target:         "/api/events/5/configuration",
			expectedStatus: http.StatusNotFound,
			expectedBody: `{
				"seatConfig": [],
				"availabilityCounts": {"available": 0, "unavailable": 0, "total": 0},
				"coordinateBounds": {"minX": 0, "maxX": 0, "minY": 0, "maxY": 0},
				"eventInfo": null,
				"text": null
			}`,
		},
		{
			name:           "negative index",
			target:         "/api/events/-1/configuration",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Validation failed", "data": {"Index": "gte"}}`,
		},
		{
			name:           "not a number",
			target:         "/api/events/first/configuration",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "Invalid event index"}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			w := s.serve(http.MethodGet, tc.target, "")

			s.Equal(tc.expectedStatus, w.Code)
			s.JSONEq(tc.expectedBody, w.Body.String())
		})
	}
}

func (s *EventHttpTestSuite) TestFilters() {
	w := s.serve(http.MethodGet, "/api/events/general-admission", "")
	s.Equal(http.StatusOK, w.Code)

	var events []model.Event
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &events))
	s.Require().Len(events, 1)
	s.Equal("Open Air Jazz", events[0].Title)

	w = s.serve(http.MethodGet, "/api/events/seated", "")
	s.Equal(http.StatusOK, w.Code)

	events = nil
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &events))
	s.Require().Len(events, 1)
	s.Equal("Symphony No. 9", events[0].Title)
}

func (s *EventHttpTestSuite) TestRefresh() {
	tests := []struct {
		name           string
		reqBody        string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "invalid json",
			reqBody:        `{invalid json`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request"}`,
		},
		{
			name:           "reason too long",
			reqBody:        `{"reason": "` + strings.Repeat("x", 201) + `"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Validation failed","data":{"Reason":"max"}}`,
		},
		{
			name:    "publish error",
			reqBody: `{"reason": "scraper finished"}`,
			setupMock: func() {
				s.Publisher.EXPECT().Publish(
					gomock.Any(),
					constant.SubjectRefreshEvents,
					gomock.Any(),
					gomock.Any(),
				).Return(nil, errors.New("nats: no responders available for request"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error"}`,
		},
		{
			name:    "success without body",
			reqBody: ``,
			setupMock: func() {
				s.Publisher.EXPECT().Publish(
					gomock.Any(),
					constant.SubjectRefreshEvents,
					gomock.Any(),
					gomock.Any(),
				).Return(&jetstream.PubAck{Stream: constant.QueueStreamName, Sequence: 1}, nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"token":"1760778000000"}`,
		},
		{
			name:    "success with reason",
			reqBody: `{"reason": "scraper finished"}`,
			setupMock: func() {
				s.Publisher.EXPECT().Publish(
					gomock.Any(),
					constant.SubjectRefreshEvents,
					gomock.Any(),
					gomock.Any(),
				).DoAndReturn(func(_ any, _ string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
					s.JSONEq(`{"token":"1760778000000","reason":"scraper finished","requested_at":"2026-10-18T09:00:00Z"}`, string(payload))
					return &jetstream.PubAck{Stream: constant.QueueStreamName, Sequence: 2}, nil
				})
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"token":"1760778000000"}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			w := s.serve(http.MethodPost, "/api/events/refresh", tc.reqBody)

			s.Equal(tc.expectedStatus, w.Code)
			s.JSONEq(tc.expectedBody, w.Body.String())
		})
	}
}

func (s *EventHttpTestSuite) TestStaticEvents() {
	dir := s.T().TempDir()
	file := filepath.Join(dir, "events.json")
	s.Require().NoError(os.WriteFile(file, []byte(`[]`), 0o644))

	mux := http.NewServeMux()
	RegisterStaticEvents(mux, file)

	req := httptest.NewRequest(http.MethodGet, "/data/events.json?v=1760778000000", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("[]", w.Body.String())
	s.Equal("no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	s.Equal("application/json", w.Header().Get("Content-Type"))

	missing := http.NewServeMux()
	RegisterStaticEvents(missing, filepath.Join(dir, "absent.json"))

	w = httptest.NewRecorder()
	missing.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data/events.json", nil))
	s.Equal(http.StatusNotFound, w.Code)
}
