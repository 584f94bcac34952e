package export

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"salonbook/internal/config"
	"salonbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSchedule(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(io.Discard)
	writer := NewExcelScheduleWriter(config.ExportConfig{Path: dir}, logger)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	providers := []*models.ServiceProvider{
		{ID: 1, Name: "Anna", Specialization: "Colorist"},
		{ID: 2, Name: "Boris"},
	}
	dailyBookings := map[string][]*models.Booking{
		"2026-06-01": {
			{
				ProviderID:    1,
				CustomerName:  "Clara",
				ServiceName:   "Haircut",
				AppointmentAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				ProviderID:    1,
				CustomerName:  "Dmitri",
				ServiceName:   "Coloring",
				AppointmentAt: time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC),
			},
		},
	}

	err := writer.WriteSchedule(context.Background(), start, end, dailyBookings, providers)
	require.NoError(t, err)

	path := filepath.Join(dir, "schedule_2026-06-01_to_2026-06-03.xlsx")
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(scheduleSheet, "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "01.06.2026")
	assert.Contains(t, title, "03.06.2026")

	// Provider rows
	anna, err := f.GetCellValue(scheduleSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Anna (Colorist)", anna)

	boris, err := f.GetCellValue(scheduleSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Boris", boris)

	// June 1 column for Anna
	cell, err := f.GetCellValue(scheduleSheet, "B3")
	require.NoError(t, err)
	assert.Contains(t, cell, "10:00 Clara - Haircut")
	assert.Contains(t, cell, "14:00 Dmitri - Coloring")
	assert.Contains(t, cell, "Booked: 2")

	// Boris has nothing that day
	free, err := f.GetCellValue(scheduleSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Free", free)
}

func TestWriteScheduleEmptyRange(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(io.Discard)
	writer := NewExcelScheduleWriter(config.ExportConfig{Path: dir}, logger)

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	err := writer.WriteSchedule(context.Background(), day, day, nil, nil)
	require.NoError(t, err)

	path := filepath.Join(dir, "schedule_2026-06-01_to_2026-06-01.xlsx")
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	f.Close()
}

func TestLastColumnName(t *testing.T) {
	assert.Equal(t, "A", lastColumnName(1))
	assert.Equal(t, "Z", lastColumnName(26))
	assert.Equal(t, "AA", lastColumnName(27))
	assert.Equal(t, "AB", lastColumnName(28))
}
