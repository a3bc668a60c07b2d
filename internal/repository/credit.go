package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/sqlscan"

	"github.com/Dan9191/credit-service/internal/models"
)

var dataColumns = []string{
	"company_name",
	"address",
	"registration_date",
	"number_of_employees",
	"raised_capital",
	"turnover",
	"net_profit",
	"contact_number",
	"contact_email",
	"company_website",
	"loan_amount",
	"loan_interest",
	"account_status",
}

var selectQuery = "SELECT id, " + strings.Join(dataColumns, ", ") + " FROM " + table

func dataArgs(rec *models.CreditRecord) []interface{} {
	return []interface{}{
		rec.CompanyName,
		rec.Address,
		rec.RegistrationDate,
		rec.NumberOfEmployees,
		rec.RaisedCapital,
		rec.Turnover,
		rec.NetProfit,
		rec.ContactNumber,
		rec.ContactEmail,
		rec.CompanyWebsite,
		rec.LoanAmount,
		rec.LoanInterest,
		rec.AccountStatus,
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// List returns every credit record ordered by id
func (r *Repository) List(ctx context.Context) ([]models.CreditRecord, error) {
	var records []models.CreditRecord
	err := r.withSession(ctx, func(tx *sql.Tx) error {
		if err := sqlscan.Select(ctx, tx, &records, selectQuery+" ORDER BY id"); err != nil {
			return fmt.Errorf("failed to list credit info: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.CreditRecord{}
	}
	return records, nil
}

// Get retrieves a credit record by id or company name
func (r *Repository) Get(ctx context.Context, key models.Key) (*models.CreditRecord, error) {
	var rec *models.CreditRecord
	err := r.withSession(ctx, func(tx *sql.Tx) error {
		var err error
		rec, err = r.get(ctx, tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Repository) get(ctx context.Context, tx *sql.Tx, key models.Key) (*models.CreditRecord, error) {
	query := selectQuery + " WHERE id = ?"
	var arg interface{} = key.ID
	if key.ByName() {
		query = selectQuery + " WHERE company_name = ? ORDER BY id LIMIT 1"
		arg = key.Name
	}
	rec := &models.CreditRecord{}
	if err := sqlscan.Get(ctx, tx, rec, r.dialect.rebind(query), arg); err != nil {
		if sqlscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credit info: %w", err)
	}
	return rec, nil
}

func (r *Repository) exists(ctx context.Context, tx *sql.Tx, where string, arg interface{}) (bool, error) {
	var one int
	query := r.dialect.rebind("SELECT 1 FROM " + table + " WHERE " + where + " LIMIT 1")
	err := tx.QueryRowContext(ctx, query, arg).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to check credit info existence: %w", err)
	}
	return true, nil
}

// Create inserts a new credit record. The company name, and the id when one is
// supplied, are checked for existence in the same session before inserting.
// On success rec.ID holds the stored identifier.
func (r *Repository) Create(ctx context.Context, rec *models.CreditRecord) error {
	return r.withSession(ctx, func(tx *sql.Tx) error {
		taken, err := r.exists(ctx, tx, "company_name = ?", rec.CompanyName)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameExists
		}

		columns := dataColumns
		args := dataArgs(rec)
		explicitID := rec.ID != 0
		if explicitID {
			taken, err := r.exists(ctx, tx, "id = ?", rec.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrIDExists
			}
			columns = append([]string{"id"}, dataColumns...)
			args = append([]interface{}{rec.ID}, args...)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			table, strings.Join(columns, ", "), placeholders(len(columns)))
		var id int64
		if err := tx.QueryRowContext(ctx, r.dialect.rebind(query), args...).Scan(&id); err != nil {
			if r.dialect.isUniqueErr(err) {
				return ErrIDExists
			}
			return fmt.Errorf("failed to create credit info: %w", err)
		}
		if explicitID && r.dialect.syncSequence != "" {
			if _, err := tx.ExecContext(ctx, r.dialect.syncSequence); err != nil {
				return fmt.Errorf("failed to sync id sequence: %w", err)
			}
		}
		rec.ID = id
		return nil
	})
}

// Update merges patch into the stored record addressed by key and returns the
// result. Fields absent from the patch keep their stored values.
func (r *Repository) Update(ctx context.Context, key models.Key, patch models.CreditPatch) (*models.CreditRecord, error) {
	var updated models.CreditRecord
	err := r.withSession(ctx, func(tx *sql.Tx) error {
		existing, err := r.get(ctx, tx, key)
		if err != nil {
			return err
		}
		updated = patch.Apply(*existing)

		assignments := make([]string, len(dataColumns))
		for i, column := range dataColumns {
			assignments[i] = column + " = ?"
		}
		query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(assignments, ", "))
		args := append(dataArgs(&updated), updated.ID)
		if _, err := tx.ExecContext(ctx, r.dialect.rebind(query), args...); err != nil {
			return fmt.Errorf("failed to update credit info: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record addressed by key and returns it
func (r *Repository) Delete(ctx context.Context, key models.Key) (*models.CreditRecord, error) {
	var deleted *models.CreditRecord
	err := r.withSession(ctx, func(tx *sql.Tx) error {
		existing, err := r.get(ctx, tx, key)
		if err != nil {
			return err
		}
		query := r.dialect.rebind("DELETE FROM " + table + " WHERE id = ?")
		if _, err := tx.ExecContext(ctx, query, existing.ID); err != nil {
			return fmt.Errorf("failed to delete credit info: %w", err)
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Count returns the number of stored records
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count credit info: %w", err)
	}
	return n, nil
}

// Optimize runs the engine's statistics/optimizer pass over the table
func (r *Repository) Optimize(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.optimize); err != nil {
		return fmt.Errorf("failed to optimize: %w", err)
	}
	return nil
}
