package event

import (
	"context"
	"errors"
	"log/slog"
	"seatmap/catalog"
	"seatmap/model"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
)

type fakeRefresher struct {
	result catalog.LoadResult
	err    error
	tokens []string
}

func (f *fakeRefresher) RefreshWithToken(ctx context.Context, token string) (catalog.LoadResult, error) {
	f.tokens = append(f.tokens, token)
	return f.result, f.err
}

type RefreshEventTestSuite struct {
	suite.Suite
	refresher    *fakeRefresher
	refreshEvent RefreshEvent
}

func (s *RefreshEventTestSuite) SetupTest() {
	s.refresher = &fakeRefresher{}
	s.refreshEvent = RefreshEvent{
		Catalog:  s.refresher,
		Validate: validator.New(),
		Timeout:  10 * time.Second,
	}

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func TestRefreshEventTestSuite(t *testing.T) {
	suite.Run(t, new(RefreshEventTestSuite))
}

func (s *RefreshEventTestSuite) TestRefreshHandler() {
	testCases := []struct {
		name           string
		msg            string
		result         catalog.LoadResult
		refreshErr     error
		expectError    bool
		expectedTokens []string
	}{
		{
			name:           "invalid json",
			msg:            `{invalid json`,
			expectError:    false,
			expectedTokens: nil,
		},
		{
			name:           "missing token",
			msg:            `{"reason": "scraper finished"}`,
			expectError:    false,
			expectedTokens: nil,
		},
		{
			name:           "refresh error",
			msg:            `{"token": "1760778000000", "reason": "scraper finished", "requested_at": "2026-10-18T09:00:00Z"}`,
			refreshErr:     errors.New("load events: events source error: 502 Bad Gateway: bad gateway"),
			expectError:    true,
			expectedTokens: []string{"1760778000000"},
		},
		{
			name: "fallback is not redelivered",
			msg:  `{"token": "1760778000001"}`,
			result: catalog.LoadResult{
				Events: []model.Event{{Title: "Previous Show", Seats: model.GeneralAdmission("")}},
				Token:  "1760777000000",
				Source: catalog.SourceMemory,
				Err:    errors.New("events source error: 502 Bad Gateway"),
			},
			expectError:    false,
			expectedTokens: []string{"1760778000001"},
		},
		{
			name: "success",
			msg:  `{"token": "1760778000002", "requested_at": "2026-10-18T09:00:00Z"}`,
			result: catalog.LoadResult{
				Events: []model.Event{{Title: "Open Air Jazz", Seats: model.GeneralAdmission("General admission")}},
				Token:  "1760778000002",
				Source: catalog.SourceRemote,
			},
			expectError:    false,
			expectedTokens: []string{"1760778000002"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.refresher.tokens = nil
			s.refresher.result = tc.result
			s.refresher.err = tc.refreshErr

			err := s.refreshEvent.RefreshHandler(context.Background(), []byte(tc.msg))

			if tc.expectError {
				s.Error(err)
			} else {
				s.NoError(err)
			}

			s.Equal(tc.expectedTokens, s.refresher.tokens)
		})
	}
}
