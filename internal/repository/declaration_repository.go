package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ecole-stages/stage-api/internal/models"
)

// declarationColumns is the joined projection shared by every read. Each
// declaration carries the owning student's name and email.
const declarationColumns = `d.id, d.student_id, d.company, d.subject, d.start_date, d.end_date, d.status, d.comment, d.created_at, d.updated_at,
        u.name AS student_name, u.email AS student_email`

// DeclarationRepository manages persistence for internship declarations.
type DeclarationRepository struct {
	db *sqlx.DB
}

// NewDeclarationRepository constructs a DeclarationRepository.
func NewDeclarationRepository(db *sqlx.DB) *DeclarationRepository {
	return &DeclarationRepository{db: db}
}

// List returns all declarations joined with student details, most recent first.
func (r *DeclarationRepository) List(ctx context.Context) ([]models.DeclarationDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM declarations d JOIN users u ON u.id = d.student_id ORDER BY d.created_at DESC`, declarationColumns)
	var declarations []models.DeclarationDetail
	if err := r.db.SelectContext(ctx, &declarations, query); err != nil {
		return nil, fmt.Errorf("list declarations: %w", err)
	}
	return declarations, nil
}

// FindByID fetches a single joined declaration.
func (r *DeclarationRepository) FindByID(ctx context.Context, id int64) (*models.DeclarationDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM declarations d JOIN users u ON u.id = d.student_id WHERE d.id = $1`, declarationColumns)
	var detail models.DeclarationDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find declaration by id: %w", err)
	}
	return &detail, nil
}

// ListByStudent returns the declarations owned by one student, most recent
// first. A student without declarations yields an empty slice.
func (r *DeclarationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.DeclarationDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM declarations d JOIN users u ON u.id = d.student_id WHERE d.student_id = $1 ORDER BY d.created_at DESC`, declarationColumns)
	var declarations []models.DeclarationDetail
	if err := r.db.SelectContext(ctx, &declarations, query, studentID); err != nil {
		return nil, fmt.Errorf("list declarations by student: %w", err)
	}
	return declarations, nil
}

// Create inserts a declaration and fills in the generated identifier.
func (r *DeclarationRepository) Create(ctx context.Context, decl *models.Declaration) error {
	now := time.Now().UTC()
	if decl.CreatedAt.IsZero() {
		decl.CreatedAt = now
	}
	decl.UpdatedAt = now
	const query = `INSERT INTO declarations (student_id, company, subject, start_date, end_date, status, comment, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		decl.StudentID, decl.Company, decl.Subject, decl.StartDate, decl.EndDate,
		decl.Status, decl.Comment, decl.CreatedAt, decl.UpdatedAt,
	).Scan(&decl.ID); err != nil {
		return fmt.Errorf("create declaration: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the review status and comment, refreshing
// updated_at. There is no guard on the current status: re-reviewing an
// already approved or rejected declaration is allowed.
func (r *DeclarationRepository) UpdateStatus(ctx context.Context, id int64, status models.DeclarationStatus, comment *string) error {
	const query = `UPDATE declarations SET status = $2, comment = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, comment, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update declaration status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update declaration rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a declaration.
func (r *DeclarationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM declarations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete declaration: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete declaration rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Stats aggregates declaration counts per status in a single pass.
func (r *DeclarationRepository) Stats(ctx context.Context) (*models.DeclarationStats, error) {
	const query = `SELECT COUNT(*) AS total,
        COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
        COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved,
        COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected
        FROM declarations`
	var stats models.DeclarationStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("declaration stats: %w", err)
	}
	return &stats, nil
}
