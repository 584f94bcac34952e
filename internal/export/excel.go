package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salonbook/internal/config"
	"salonbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const scheduleSheet = "Schedule"

// ExcelScheduleWriter renders the front-desk schedule grid to an XLSX
// file: one row per provider, one column per day, each cell listing the
// booked appointments for that pair.
type ExcelScheduleWriter struct {
	config config.ExportConfig
	logger zerolog.Logger
}

func NewExcelScheduleWriter(cfg config.ExportConfig, logger zerolog.Logger) *ExcelScheduleWriter {
	return &ExcelScheduleWriter{
		config: cfg,
		logger: logger,
	}
}

func (w *ExcelScheduleWriter) WriteSchedule(
	ctx context.Context,
	startDate, endDate time.Time,
	dailyBookings map[string][]*models.Booking,
	providers []*models.ServiceProvider,
) error {
	if err := os.MkdirAll(w.config.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(scheduleSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(scheduleSheet, "A1", fmt.Sprintf("Period: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))

	dateCols := w.writeDateHeaders(f, startDate, endDate)
	w.writeProviderHeaders(f, providers)
	w.writeBookingCells(f, dailyBookings, providers, dateCols)

	_ = f.SetColWidth(scheduleSheet, "A", "A", 25)
	for i := 'B'; i <= 'Z'; i++ {
		_ = f.SetColWidth(scheduleSheet, string(i), string(i), 28)
	}

	lastCol := lastColumnName(len(dateCols) + 1)
	_ = f.MergeCell(scheduleSheet, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(scheduleSheet, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("schedule_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(w.config.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	w.logger.Info().Str("file_path", filePath).Msg("Schedule export created")
	return nil
}

func (w *ExcelScheduleWriter) writeDateHeaders(f *excelize.File, startDate, endDate time.Time) map[string]int {
	col := 2
	currentDate := startDate
	dateCols := make(map[string]int)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for !currentDate.After(endDate) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(scheduleSheet, cell, currentDate.Format("02.01"))
		_ = f.SetCellStyle(scheduleSheet, cell, cell, headerStyle)
		dateCols[currentDate.Format("2006-01-02")] = col

		col++
		currentDate = currentDate.AddDate(0, 0, 1)
	}
	return dateCols
}

func (w *ExcelScheduleWriter) writeProviderHeaders(f *excelize.File, providers []*models.ServiceProvider) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	for _, provider := range providers {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		label := provider.Name
		if provider.Specialization != "" {
			label = fmt.Sprintf("%s (%s)", provider.Name, provider.Specialization)
		}
		_ = f.SetCellValue(scheduleSheet, cell, label)
		_ = f.SetCellStyle(scheduleSheet, cell, cell, style)
		row++
	}
}

func (w *ExcelScheduleWriter) writeBookingCells(
	f *excelize.File,
	dailyBookings map[string][]*models.Booking,
	providers []*models.ServiceProvider,
	dateCols map[string]int,
) {
	freeStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFFFFF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})
	bookedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})

	for dateKey, bookings := range dailyBookings {
		col, exists := dateCols[dateKey]
		if !exists {
			continue
		}

		byProvider := make(map[int64][]*models.Booking)
		for _, booking := range bookings {
			byProvider[booking.ProviderID] = append(byProvider[booking.ProviderID], booking)
		}

		row := 3
		for _, provider := range providers {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			providerBookings := byProvider[provider.ID]

			var cellValue string
			if len(providerBookings) > 0 {
				for _, booking := range providerBookings {
					cellValue += fmt.Sprintf("%s %s - %s\n",
						booking.AppointmentAt.Format("15:04"),
						booking.CustomerName,
						booking.ServiceName)
				}
				cellValue += fmt.Sprintf("\nBooked: %d", len(providerBookings))
				_ = f.SetCellStyle(scheduleSheet, cell, cell, bookedStyle)
			} else {
				cellValue = "Free"
				_ = f.SetCellStyle(scheduleSheet, cell, cell, freeStyle)
			}

			_ = f.SetCellValue(scheduleSheet, cell, cellValue)
			row++
		}
	}
}

func lastColumnName(colCount int) string {
	if colCount <= 26 {
		return string(rune('A' + colCount - 1))
	}

	firstChar := string(rune('A' + (colCount-1)/26 - 1))
	secondChar := string(rune('A' + (colCount-1)%26))
	return firstChar + secondChar
}
