package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
	"github.com/claimguard/claimguard/pkg/database"
)

// ErrClaimNotFound is returned when a claim lookup matches no row.
var ErrClaimNotFound = errors.New("claim not found")

// ClaimRepository persists adjudicated claims for the history view.
type ClaimRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *database.DB, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a claim record and sets its generated ID.
func (r *ClaimRepository) Create(record *models.ClaimRecord) error {
	query := `
		INSERT INTO claims (
			claim_id, merchant_name, patient_name,
			total_claimed, total_approved, total_deducted,
			status, full_data, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	} else {
		now = record.CreatedAt
	}

	result, err := r.db.Exec(query,
		record.ClaimID,
		record.MerchantName,
		record.PatientName,
		record.TotalClaimed,
		record.TotalApproved,
		record.TotalDeducted,
		record.Status,
		record.FullData,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create claim record",
			zap.String("claim_id", record.ClaimID),
			zap.Error(err))
		return fmt.Errorf("failed to create claim record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// List returns the most recent claims, newest first.
func (r *ClaimRepository) List(limit int) ([]*models.ClaimRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, claim_id, merchant_name, patient_name,
			total_claimed, total_approved, total_deducted,
			status, full_data, created_at
		FROM claims
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var records []*models.ClaimRecord
	for rows.Next() {
		record, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetByID retrieves a single claim by its row ID.
func (r *ClaimRepository) GetByID(id int64) (*models.ClaimRecord, error) {
	query := `
		SELECT id, claim_id, merchant_name, patient_name,
			total_claimed, total_approved, total_deducted,
			status, full_data, created_at
		FROM claims
		WHERE id = ?
	`

	record, err := scanClaim(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetByClaimID retrieves the most recent run for a business claim ID.
func (r *ClaimRepository) GetByClaimID(claimID string) (*models.ClaimRecord, error) {
	query := `
		SELECT id, claim_id, merchant_name, patient_name,
			total_claimed, total_approved, total_deducted,
			status, full_data, created_at
		FROM claims
		WHERE claim_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	record, err := scanClaim(r.db.QueryRow(query, claimID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanClaim(s scanner) (*models.ClaimRecord, error) {
	var record models.ClaimRecord
	err := s.Scan(
		&record.ID,
		&record.ClaimID,
		&record.MerchantName,
		&record.PatientName,
		&record.TotalClaimed,
		&record.TotalApproved,
		&record.TotalDeducted,
		&record.Status,
		&record.FullData,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan claim: %w", err)
	}
	return &record, nil
}
