package database

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// insertBatchSize caps the rows per INSERT statement.
const insertBatchSize = 100

// ResultStore persists page results using GORM.
// It implements pipeline.BatchLoader.
type ResultStore struct {
	db *gorm.DB
}

// NewResultStore initialises a ResultStore backed by db.
func NewResultStore(db *gorm.DB) *ResultStore {
	return &ResultStore{db: db}
}

// AutoMigrate ensures the results table exists with the expected schema.
func (s *ResultStore) AutoMigrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("result store not initialised")
	}
	return s.db.WithContext(ctx).AutoMigrate(&resultRecord{})
}

// LoadBatch inserts one row per result.
func (s *ResultStore) LoadBatch(ctx context.Context, results []domain.PageResult) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("result store not initialised")
	}
	if len(results) == 0 {
		return nil
	}

	records := make([]resultRecord, len(results))
	for i := range results {
		records[i] = toRecord(results[i])
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&records, insertBatchSize).Error; err != nil {
		return fmt.Errorf("insert results: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *ResultStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CheckReadiness reports whether the database is reachable.
func (s *ResultStore) CheckReadiness(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type resultRecord struct {
	ID                 uint          `gorm:"primaryKey"`
	PageName           string        `gorm:"column:page_name;size:512;not null;index:idx_results_page_name"`
	FetchResult        string        `gorm:"column:fetch_result;size:32;not null"`
	ResponseURL        string        `gorm:"column:response_url;type:text"`
	StatusCode         int           `gorm:"column:status_code"`
	ContentLocationURL string        `gorm:"column:content_location_url;type:text"`
	WikipediaURL       string        `gorm:"column:wikipedia_url;type:text"`
	LocationName       string        `gorm:"column:location_name;size:512"`
	TableHTML          htmlText      `gorm:"column:table_html"`
	TableType          string        `gorm:"column:temperature_table_type;size:32"`
	AverageHighC       domain.Series `gorm:"column:average_high_c;serializer:json;type:text"`
	AverageLowC        domain.Series `gorm:"column:average_low_c;serializer:json;type:text"`
	AverageHighF       domain.Series `gorm:"column:average_high_f;serializer:json;type:text"`
	AverageLowF        domain.Series `gorm:"column:average_low_f;serializer:json;type:text"`
	SunshineHours      domain.Series `gorm:"column:sunshine_hours;serializer:json;type:text"`
	ParseResult        string        `gorm:"column:parse_result;size:32"`
	ProcessedAt        time.Time     `gorm:"column:processed_at;not null"`
}

// htmlText is a rendered table. MySQL TEXT stops at 64 KiB, which large
// Parsoid tables exceed.
type htmlText string

// GormDBDataType picks the column type per dialect.
func (htmlText) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "mysql" {
		return "mediumtext"
	}
	return "text"
}

func (resultRecord) TableName() string {
	return "fetch_and_parse_results"
}

func toRecord(r domain.PageResult) resultRecord {
	return resultRecord{
		PageName:           r.PageName,
		FetchResult:        string(r.FetchResult),
		ResponseURL:        r.ResponseURL,
		StatusCode:         r.StatusCode,
		ContentLocationURL: r.ContentLocationURL,
		WikipediaURL:       r.WikipediaURL,
		LocationName:       r.LocationName,
		TableHTML:          htmlText(r.TableHTML),
		TableType:          string(r.TableType),
		AverageHighC:       r.AverageHighC,
		AverageLowC:        r.AverageLowC,
		AverageHighF:       r.AverageHighF,
		AverageLowF:        r.AverageLowF,
		SunshineHours:      r.SunshineHours,
		ParseResult:        string(r.ParseResult),
		ProcessedAt:        r.ProcessedAt.UTC(),
	}
}
