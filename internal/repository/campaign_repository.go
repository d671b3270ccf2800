package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/experienceprogram/campaign-backend/internal/errors"
	"github.com/experienceprogram/campaign-backend/internal/model"
)

// MonthlyStatusRow is one (month, status, count) aggregation row for the
// dashboard summary.
type MonthlyStatusRow struct {
	Month  string
	Status string
	Count  int64
}

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id uuid.UUID) (*model.Campaign, error)
	Update(c *model.Campaign) error
	UpdateStatus(campaignID uuid.UUID, status string) error
	Delete(campaignID uuid.UUID) error
	ListCampaigns(offset, limit int, requestDate, status, purpose, marketerID string) ([]*model.Campaign, int, error)
	CountMonthlyByStatusSince(start time.Time) ([]MonthlyStatusRow, error)
	FindRecent(limit int) ([]*model.Campaign, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `campaign_id, marketer_id, purpose, core_benefit_text, source_url, custom_columns,
        status, performance_status, actual_ctr, conversion_rate, performance_notes,
        is_performance_registered, is_rag_registered, request_date`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.CampaignID, &c.MarketerID, &c.Purpose, &c.CoreBenefitText, &c.SourceURL, &c.CustomColumns,
		&c.Status, &c.PerformanceStatus, &c.ActualCtr, &c.ConversionRate, &c.PerformanceNotes,
		&c.IsPerformanceRegistered, &c.IsRagRegistered, &c.RequestDate,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.CampaignID == uuid.Nil {
		c.CampaignID = uuid.New()
	}
	c.RequestDate = time.Now()
	if c.Status == "" {
		c.Status = model.StatusProcessing
	}
	if c.PerformanceStatus == "" {
		c.PerformanceStatus = model.PerformanceUndecided
	}
	query := `
        INSERT INTO campaigns (` + campaignColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `
	_, err := r.DB.Exec(query,
		c.CampaignID, c.MarketerID, c.Purpose, c.CoreBenefitText, c.SourceURL, c.CustomColumns,
		c.Status, c.PerformanceStatus, c.ActualCtr, c.ConversionRate, c.PerformanceNotes,
		c.IsPerformanceRegistered, c.IsRagRegistered, c.RequestDate,
	)
	return err
}

func (r *CampaignRepository) GetByID(id uuid.UUID) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE campaign_id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET performance_status=$1, actual_ctr=$2, conversion_rate=$3, performance_notes=$4,
            is_performance_registered=$5, is_rag_registered=$6, status=$7
        WHERE campaign_id=$8
    `
	_, err := r.DB.Exec(query,
		c.PerformanceStatus, c.ActualCtr, c.ConversionRate, c.PerformanceNotes,
		c.IsPerformanceRegistered, c.IsRagRegistered, c.Status, c.CampaignID,
	)
	return err
}

func (r *CampaignRepository) UpdateStatus(campaignID uuid.UUID, status string) error {
	query := `UPDATE campaigns SET status=$1 WHERE campaign_id=$2`
	res, err := r.DB.Exec(query, status, campaignID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	return nil
}

// Delete removes the campaign; message results go with it via the
// ON DELETE CASCADE foreign key.
func (r *CampaignRepository) Delete(campaignID uuid.UUID) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE campaign_id=$1`, campaignID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	return nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, requestDate, status, purpose, marketerID string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if requestDate != "" {
		where += fmt.Sprintf(" AND request_date::date=$%d", argPos)
		args = append(args, requestDate)
		argPos++
	}
	if status != "" {
		where += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}
	if purpose != "" {
		where += fmt.Sprintf(" AND purpose ILIKE $%d", argPos)
		args = append(args, "%"+purpose+"%")
		argPos++
	}
	if marketerID != "" {
		where += fmt.Sprintf(" AND marketer_id=$%d", argPos)
		args = append(args, marketerID)
		argPos++
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns` + where +
		fmt.Sprintf(" ORDER BY request_date DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	rows, err := r.DB.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM campaigns` + where
	if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *CampaignRepository) CountMonthlyByStatusSince(start time.Time) ([]MonthlyStatusRow, error) {
	query := `
        SELECT to_char(request_date, 'YYYY-MM'), status, COUNT(*)
        FROM campaigns
        WHERE request_date >= $1
        GROUP BY to_char(request_date, 'YYYY-MM'), status
    `
	rows, err := r.DB.Query(query, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyStatusRow
	for rows.Next() {
		var row MonthlyStatusRow
		if err := rows.Scan(&row.Month, &row.Status, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *CampaignRepository) FindRecent(limit int) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY request_date DESC LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
