package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldside/squadforge/internal/squad"
)

// CandidateRecord is the persisted form of an ingested candidate. Rows
// are grouped into named datasets so one store holds many scouting
// snapshots.
type CandidateRecord struct {
	DatasetID   string  `gorm:"primaryKey" json:"dataset_id"`
	CandidateID string  `gorm:"primaryKey" json:"candidate_id"`
	RowOrder    int     `gorm:"not null;index" json:"row_order"`
	Name        string  `gorm:"not null" json:"name"`
	Position    string  `gorm:"not null" json:"position"`
	Quality     float64 `gorm:"not null" json:"quality"`
	Cost        float64 `gorm:"not null" json:"cost"`
	Club        string  `json:"club"`
	Nationality string  `json:"nationality"`
	Age         int     `json:"age"`
	Potential   float64 `json:"potential"`
	Offense     float64 `json:"offense"`
	Defense     float64 `json:"defense"`
	Goalkeeping float64 `json:"goalkeeping"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CandidateRecord) TableName() string { return "candidates" }

// CandidateRepository stores and loads candidate datasets.
type CandidateRepository struct {
	db *DB
}

func NewCandidateRepository(db *DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// SaveDataset replaces the named dataset with the given candidates,
// preserving their canonical insertion order.
func (r *CandidateRepository) SaveDataset(ctx context.Context, datasetID string, candidates []squad.Candidate) error {
	records := make([]CandidateRecord, 0, len(candidates))
	for i, c := range candidates {
		records = append(records, CandidateRecord{
			DatasetID:   datasetID,
			CandidateID: c.ID,
			RowOrder:    i,
			Name:        c.Name,
			Position:    string(c.Position),
			Quality:     c.Quality,
			Cost:        c.Cost,
			Club:        c.Club,
			Nationality: c.Nationality,
			Age:         c.Age,
			Potential:   c.Potential,
			Offense:     c.Offense,
			Defense:     c.Defense,
			Goalkeeping: c.Goalkeeping,
		})
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin save dataset %s: %w", datasetID, tx.Error)
	}
	if err := tx.Where("dataset_id = ?", datasetID).Delete(&CandidateRecord{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("clear dataset %s: %w", datasetID, err)
	}
	if len(records) > 0 {
		if err := tx.CreateInBatches(records, 500).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("save dataset %s: %w", datasetID, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit dataset %s: %w", datasetID, err)
	}
	return nil
}

// LoadDataset returns the named dataset in its original insertion order.
func (r *CandidateRepository) LoadDataset(ctx context.Context, datasetID string) ([]squad.Candidate, error) {
	var records []CandidateRecord
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("row_order asc").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", datasetID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s not found", datasetID)
	}

	candidates := make([]squad.Candidate, 0, len(records))
	for _, rec := range records {
		position, err := squad.ParsePositionGroup(rec.Position)
		if err != nil {
			return nil, &squad.DataIntegrityError{
				CandidateID: rec.CandidateID, Field: "position", Reason: err.Error(),
			}
		}
		candidates = append(candidates, squad.Candidate{
			ID:          rec.CandidateID,
			Name:        rec.Name,
			Position:    position,
			Quality:     rec.Quality,
			Cost:        rec.Cost,
			Club:        rec.Club,
			Nationality: rec.Nationality,
			Age:         rec.Age,
			Potential:   rec.Potential,
			Offense:     rec.Offense,
			Defense:     rec.Defense,
			Goalkeeping: rec.Goalkeeping,
		})
	}
	return candidates, nil
}

// ListDatasets returns the stored dataset identifiers.
func (r *CandidateRepository) ListDatasets(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&CandidateRecord{}).
		Distinct("dataset_id").
		Order("dataset_id asc").
		Pluck("dataset_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return ids, nil
}
