package services

import (
	"fmt"
	"io"
	"log"
	"time"

	"coldemail/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const deliverySheet = "Deliveries"

var deliveryColumns = []string{
	"Created At", "View ID", "Company Name", "Company Domain", "Email", "Message",
	"Outcome", "Status Code", "Error", "Duration (ms)",
}

// ListDeliveries returns delivery log rows created at or after since, oldest first
func ListDeliveries(database *gorm.DB, since time.Time) ([]models.WebhookDelivery, error) {
	var deliveries []models.WebhookDelivery
	err := database.Where("created_at >= ?", since).Order("created_at ASC").Find(&deliveries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return deliveries, nil
}

// ExportDeliveries writes the delivery log since the given time as an XLSX workbook
func ExportDeliveries(database *gorm.DB, since time.Time, w io.Writer) (int, error) {
	deliveries, err := ListDeliveries(database, since)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", deliverySheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range deliveryColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(deliverySheet, cell, header)
	}

	for i, d := range deliveries {
		row := []interface{}{
			d.CreatedAt.UTC().Format(time.RFC3339), d.ViewID, d.CompanyName, d.CompanyDomain,
			d.Email, d.Message, d.Outcome, d.StatusCode, d.Error, d.DurationMs,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(deliverySheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(deliveries), nil
}

// PruneDeliveries deletes delivery log rows older than the retention window
func PruneDeliveries(database *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := database.Where("created_at < ?", cutoff).Delete(&models.WebhookDelivery{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune deliveries: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("[INFO] Pruned %d webhook deliveries older than %s", result.RowsAffected, retention)
	}
	return result.RowsAffected, nil
}
