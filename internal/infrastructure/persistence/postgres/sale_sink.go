package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/domain/checkout"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
)

// SubmissionFilter is the probabilistic duplicate pre-check in front of the
// sink. A negative answer is definitive and skips the database lookup; a
// positive one still falls through to the authoritative sales query.
type SubmissionFilter interface {
	Add(ctx context.Context, clientSaleID string) error
	MayContain(ctx context.Context, clientSaleID string) (bool, error)
}

var phonePattern = regexp.MustCompile(`Phone: ([\d\s\-\+]+)`)

// SaleSink persists one checkout's finalized lines: a sale row and a negative
// stock movement per line, plus creditor bookkeeping for credit sales. The
// whole hand-off is one transaction; duplicate client sale ids from terminal
// retries are skipped.
type SaleSink struct {
	db     *sql.DB
	filter SubmissionFilter
	log    *zap.Logger
}

func NewSaleSink(conn *Connection, filter SubmissionFilter, log *zap.Logger) *SaleSink {
	return &SaleSink{
		db:     conn.GetDB(),
		filter: filter,
		log:    log,
	}
}

func (s *SaleSink) SubmitSale(ctx context.Context, lines []*checkout.FinalizedSaleLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sale transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	inserted := make([]string, 0, len(lines))
	for _, line := range lines {
		duplicate, dupErr := s.isDuplicate(ctx, tx, line.ClientSaleID)
		if dupErr != nil {
			err = dupErr
			return err
		}
		if duplicate {
			s.log.Info("duplicate sale line skipped", zap.String("client_sale_id", line.ClientSaleID))
			continue
		}

		if err = s.insertLine(ctx, tx, line); err != nil {
			return err
		}
		inserted = append(inserted, line.ClientSaleID)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit sale transaction: %w", err)
	}

	for _, id := range inserted {
		if addErr := s.filter.Add(ctx, id); addErr != nil {
			s.log.Warn("submission filter update failed", zap.String("client_sale_id", id), zap.Error(addErr))
		}
	}

	monitoring.RecordSaleLinesPersisted(len(inserted))
	return nil
}

func (s *SaleSink) isDuplicate(ctx context.Context, tx *sql.Tx, clientSaleID string) (bool, error) {
	mayContain, err := s.filter.MayContain(ctx, clientSaleID)
	if err != nil {
		s.log.Warn("submission filter check failed", zap.Error(err))
		mayContain = true
	}
	if !mayContain {
		return false, nil
	}

	var exists bool
	row := monitoring.InstrumentTxQueryRow(ctx, tx, "SELECT", "sales",
		"SELECT EXISTS (SELECT 1 FROM sales WHERE client_sale_id = $1)", clientSaleID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *SaleSink) insertLine(ctx context.Context, tx *sql.Tx, line *checkout.FinalizedSaleLine) error {
	var saleID int64
	row := monitoring.InstrumentTxQueryRow(ctx, tx, "INSERT", "sales", `
		INSERT INTO sales (
			client_sale_id, product_id, quantity, sale_unit_type, pack_quantity,
			unit_price, total_price, customer_name, payment_method, notes,
			amount_paid, partial_payment_method, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		line.ClientSaleID, line.ProductID, line.Quantity, line.SaleUnitType, line.PackQuantity,
		line.UnitPrice, line.TotalPrice, line.CustomerName, line.PaymentMethod, line.Notes,
		line.AmountPaid, line.PartialPaymentMethod, time.Now().UTC(),
	)
	if err := row.Scan(&saleID); err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}

	_, err := monitoring.InstrumentTxExec(ctx, tx, "INSERT", "stock_movements", `
		INSERT INTO stock_movements (product_id, sale_id, change, reason, created_at)
		VALUES ($1, $2, $3, 'Sale', $4)
	`, line.ProductID, saleID, -line.Quantity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}

	if line.PaymentMethod == string(checkout.PaymentCredit) && line.CustomerName != nil {
		if err := s.recordCredit(ctx, tx, saleID, line); err != nil {
			return err
		}
	}

	return nil
}

// recordCredit mirrors the creditor ledger rules: the full line total is
// recorded as debt, and any up-front amount is a separate payment entry that
// reduces it. Recording the up-front amount inside the debt entry as well
// would subtract it twice.
func (s *SaleSink) recordCredit(ctx context.Context, tx *sql.Tx, saleID int64, line *checkout.FinalizedSaleLine) error {
	productName, err := s.productName(ctx, tx, line.ProductID)
	if err != nil {
		return err
	}

	phone := extractPhone(line.Notes)
	creditorID, err := s.findOrCreateCreditor(ctx, tx, *line.CustomerName, phone, line.TotalPrice)
	if err != nil {
		return err
	}

	debtNotes := fmt.Sprintf("Credit sale - %s x %d", productName, line.Quantity)
	_, err = monitoring.InstrumentTxExec(ctx, tx, "INSERT", "credit_transactions", `
		INSERT INTO credit_transactions (creditor_id, sale_id, amount, transaction_type, notes, created_at)
		VALUES ($1, $2, $3, 'debt', $4, $5)
	`, creditorID, saleID, line.TotalPrice, debtNotes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert debt transaction: %w", err)
	}

	if line.AmountPaid == nil || !line.AmountPaid.IsPositive() {
		return nil
	}

	_, err = monitoring.InstrumentTxExec(ctx, tx, "UPDATE", "creditors",
		"UPDATE creditors SET total_debt = total_debt - $1 WHERE id = $2",
		*line.AmountPaid, creditorID)
	if err != nil {
		return fmt.Errorf("apply initial payment: %w", err)
	}

	paymentNotes := fmt.Sprintf("Initial payment for %s x %d", productName, line.Quantity)
	_, err = monitoring.InstrumentTxExec(ctx, tx, "INSERT", "credit_transactions", `
		INSERT INTO credit_transactions (creditor_id, sale_id, amount, transaction_type, notes, created_at)
		VALUES ($1, $2, $3, 'payment', $4, $5)
	`, creditorID, saleID, *line.AmountPaid, paymentNotes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}

	return nil
}

func (s *SaleSink) findOrCreateCreditor(ctx context.Context, tx *sql.Tx, name, phone string, debt decimal.Decimal) (int64, error) {
	var id int64
	row := monitoring.InstrumentTxQueryRow(ctx, tx, "SELECT", "creditors",
		"SELECT id FROM creditors WHERE name = $1", name)
	err := row.Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		row = monitoring.InstrumentTxQueryRow(ctx, tx, "INSERT", "creditors", `
			INSERT INTO creditors (name, phone, total_debt, created_at)
			VALUES ($1, NULLIF($2, ''), $3, $4)
			RETURNING id
		`, name, phone, debt, time.Now().UTC())
		if err := row.Scan(&id); err != nil {
			return 0, fmt.Errorf("create creditor: %w", err)
		}
		return id, nil
	case err != nil:
		return 0, err
	}

	_, err = monitoring.InstrumentTxExec(ctx, tx, "UPDATE", "creditors", `
		UPDATE creditors
		SET total_debt = total_debt + $1,
		    phone = COALESCE(phone, NULLIF($2, ''))
		WHERE id = $3
	`, debt, phone, id)
	if err != nil {
		return 0, fmt.Errorf("update creditor: %w", err)
	}
	return id, nil
}

func (s *SaleSink) productName(ctx context.Context, tx *sql.Tx, productID int64) (string, error) {
	var name string
	row := monitoring.InstrumentTxQueryRow(ctx, tx, "SELECT", "products",
		"SELECT name FROM products WHERE id = $1", productID)
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Sprintf("product %d", productID), nil
		}
		return "", err
	}
	return name, nil
}

func extractPhone(notes *string) string {
	if notes == nil {
		return ""
	}
	match := phonePattern.FindStringSubmatch(*notes)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}
