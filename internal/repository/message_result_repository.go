package repository

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/experienceprogram/campaign-backend/internal/model"
)

type MessageResultRepositoryInterface interface {
	CreateBulk(results []*model.MessageResult) error
	ListByCampaign(campaignID uuid.UUID) ([]*model.MessageResult, error)
	ListSelected(campaignID uuid.UUID) ([]*model.MessageResult, error)
	GetByIDs(ids []uuid.UUID) ([]*model.MessageResult, error)
	UpdateSelection(campaignID uuid.UUID, selected []uuid.UUID) error
	ReplaceForCampaign(campaignID uuid.UUID, results []*model.MessageResult) error
}

type MessageResultRepository struct {
	DB *sql.DB
}

const resultColumns = `result_id, campaign_id, target_group_index, target_name, target_features,
        classification_reason, message_draft_index, message_text, validator_report, is_selected`

const insertResultQuery = `
        INSERT INTO message_results (` + resultColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `

func scanResult(row interface{ Scan(...any) error }) (*model.MessageResult, error) {
	var m model.MessageResult
	err := row.Scan(
		&m.ResultID, &m.CampaignID, &m.TargetGroupIndex, &m.TargetName, &m.TargetFeatures,
		&m.ClassificationReason, &m.MessageDraftIndex, &m.MessageText, &m.ValidatorReport, &m.IsSelected,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func insertResults(tx *sql.Tx, results []*model.MessageResult) error {
	for _, m := range results {
		if m.ResultID == uuid.Nil {
			m.ResultID = uuid.New()
		}
		_, err := tx.Exec(insertResultQuery,
			m.ResultID, m.CampaignID, m.TargetGroupIndex, m.TargetName, m.TargetFeatures,
			m.ClassificationReason, m.MessageDraftIndex, m.MessageText, m.ValidatorReport, m.IsSelected,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateBulk inserts every result in one transaction so a mid-batch fault
// never leaves a partial draft set behind.
func (r *MessageResultRepository) CreateBulk(results []*model.MessageResult) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	if err := insertResults(tx, results); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *MessageResultRepository) listWhere(where string, args ...interface{}) ([]*model.MessageResult, error) {
	query := `SELECT ` + resultColumns + ` FROM message_results ` + where +
		` ORDER BY target_group_index, message_draft_index`
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*model.MessageResult{}
	for rows.Next() {
		m, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (r *MessageResultRepository) ListByCampaign(campaignID uuid.UUID) ([]*model.MessageResult, error) {
	return r.listWhere(`WHERE campaign_id=$1`, campaignID)
}

func (r *MessageResultRepository) ListSelected(campaignID uuid.UUID) ([]*model.MessageResult, error) {
	return r.listWhere(`WHERE campaign_id=$1 AND is_selected=true`, campaignID)
}

func (r *MessageResultRepository) GetByIDs(ids []uuid.UUID) ([]*model.MessageResult, error) {
	return r.listWhere(`WHERE result_id = ANY($1)`, pq.Array(uuidStrings(ids)))
}

// UpdateSelection clears every flag for the campaign and sets the requested
// ids, in one transaction. Exactly the requested ids end up selected.
func (r *MessageResultRepository) UpdateSelection(campaignID uuid.UUID, selected []uuid.UUID) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE message_results SET is_selected=false WHERE campaign_id=$1`, campaignID); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`UPDATE message_results SET is_selected=true WHERE result_id = ANY($1)`,
		pq.Array(uuidStrings(selected))); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ReplaceForCampaign swaps the whole draft set atomically. A fault between
// delete and insert rolls back to the previous set.
func (r *MessageResultRepository) ReplaceForCampaign(campaignID uuid.UUID, results []*model.MessageResult) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM message_results WHERE campaign_id=$1`, campaignID); err != nil {
		tx.Rollback()
		return err
	}
	if err := insertResults(tx, results); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

var _ MessageResultRepositoryInterface = (*MessageResultRepository)(nil)
