package vars

import (
	"seatmap/model"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEvents(t *testing.T) {
	defer SetEvents(nil, "", time.Time{})

	assert.Nil(t, GetEventSnapshot())
	assert.Nil(t, GetEvents())

	loadedAt := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	events := []model.Event{
		{Title: "Symphony No. 9", Seats: model.SeatList{}},
		{Title: "Open Air Jazz", Seats: model.GeneralAdmission("General admission")},
	}
	SetEvents(events, "1760778000000", loadedAt)

	snapshot := GetEventSnapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, events, snapshot.Events)
	assert.Equal(t, "1760778000000", snapshot.Token)
	assert.Equal(t, loadedAt, snapshot.LoadedAt)

	events[0].Title = "changed"
	assert.Equal(t, "Symphony No. 9", GetEvents()[0].Title)

	SetEvents([]model.Event{}, "2", loadedAt)
	assert.NotNil(t, GetEvents())
	assert.Empty(t, GetEvents())

	SetEvents(nil, "", time.Time{})
	assert.Nil(t, GetEventSnapshot())
}

func TestSetEvents_ConcurrentReaders(t *testing.T) {
	defer SetEvents(nil, "", time.Time{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			SetEvents(make([]model.Event, i), "token", time.Now())
		}(i)
		go func() {
			defer wg.Done()
			_ = len(GetEvents())
		}()
	}
	wg.Wait()

	assert.NotNil(t, GetEventSnapshot())
}
