package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"foodcourt/internal/types"
)

// RecordType represents the type of history record
type RecordType string

const (
	TypePaymentResolved RecordType = "PAYMENT_RESOLVED"
	TypeOrderPlaced     RecordType = "ORDER_PLACED"

	// Generic types for extensibility
	TypePayment RecordType = "payment"
	TypeOrder   RecordType = "order"
)

// PaymentRecord represents one settled payment or order event
type PaymentRecord struct {
	ID            int64      `json:"id" db:"id"`
	Type          RecordType `json:"type" db:"type"`
	TransactionID string     `json:"transaction_id" db:"transaction_id"`
	OrderID       string     `json:"order_id" db:"order_id"`
	VendorID      string     `json:"vendor_id" db:"vendor_id"`
	Status        string     `json:"status" db:"status"`
	PaymentType   string     `json:"payment_type" db:"payment_type"`
	Amount        string     `json:"amount" db:"amount"`
	UTR           string     `json:"utr" db:"utr"`
	Message       string     `json:"message" db:"message"`
	Time          int64      `json:"time" db:"time"`
	Extended      string     `json:"extended" db:"extended"`
}

// QueryCondition represents conditions for querying payment records
type QueryCondition struct {
	Type          RecordType `json:"type,omitempty"`
	VendorID      string     `json:"vendor_id,omitempty"`
	Status        string     `json:"status,omitempty"`
	PaymentType   string     `json:"payment_type,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	StartTime     int64      `json:"start_time,omitempty"`
	EndTime       int64      `json:"end_time,omitempty"`
	Limit         int        `json:"limit,omitempty"`
	Offset        int        `json:"offset,omitempty"`
}

// HistoryModule manages payment records
type HistoryModule struct {
	db            *sqlx.DB
	cleanupTicker *time.Ticker
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewHistoryModule creates a new history module instance
func NewHistoryModule() (*HistoryModule, error) {
	// Get database configuration from environment variables
	dbHost := os.Getenv("POSTGRES_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("POSTGRES_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	dbName := os.Getenv("POSTGRES_DB")
	if dbName == "" {
		dbName = "foodcourt"
	}

	dbUser := os.Getenv("POSTGRES_USER")
	if dbUser == "" {
		dbUser = "postgres"
	}

	dbPassword := os.Getenv("POSTGRES_PASSWORD")
	if dbPassword == "" {
		dbPassword = "password"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		glog.Errorf("Failed to connect to PostgreSQL: %v", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		glog.Errorf("Failed to ping PostgreSQL: %v", err)
		return nil, err
	}

	glog.Infof("Connected to PostgreSQL successfully")

	ctx, cancel := context.WithCancel(context.Background())

	module := &HistoryModule{
		db:     db,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := module.initSchema(); err != nil {
		glog.Errorf("Failed to initialize database schema: %v", err)
		return nil, err
	}

	module.startCleanupRoutine()

	return module, nil
}

// initSchema creates the payment_records table if it doesn't exist
func (hm *HistoryModule) initSchema() error {
	createTableSchema := `
	CREATE TABLE IF NOT EXISTS payment_records (
		id BIGSERIAL PRIMARY KEY,
		type VARCHAR(100) NOT NULL,
		transaction_id VARCHAR(255) NOT NULL,
		order_id VARCHAR(255) DEFAULT '',
		vendor_id VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL,
		payment_type VARCHAR(50) DEFAULT '',
		amount VARCHAR(32) DEFAULT '',
		message TEXT DEFAULT '',
		time BIGINT NOT NULL,
		extended TEXT DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := hm.db.Exec(createTableSchema)
	if err != nil {
		glog.Errorf("Failed to create base table: %v", err)
		return err
	}

	// Check if utr column exists, if not add it
	var columnExists bool
	checkColumnQuery := `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'payment_records'
			AND column_name = 'utr'
		);`

	err = hm.db.QueryRow(checkColumnQuery).Scan(&columnExists)
	if err != nil {
		glog.Errorf("Failed to check if utr column exists: %v", err)
		return err
	}

	if !columnExists {
		glog.Infof("UTR column does not exist, adding it...")
		addColumnQuery := `ALTER TABLE payment_records ADD COLUMN utr VARCHAR(100) NOT NULL DEFAULT '';`
		_, err = hm.db.Exec(addColumnQuery)
		if err != nil {
			glog.Errorf("Failed to add utr column: %v", err)
			return err
		}
		glog.Infof("UTR column added successfully")
	}

	indexSchema := `
	CREATE INDEX IF NOT EXISTS idx_payment_type_col ON payment_records(type);
	CREATE INDEX IF NOT EXISTS idx_payment_vendor ON payment_records(vendor_id);
	CREATE INDEX IF NOT EXISTS idx_payment_txn ON payment_records(transaction_id);
	CREATE INDEX IF NOT EXISTS idx_payment_status ON payment_records(status);
	CREATE INDEX IF NOT EXISTS idx_payment_time ON payment_records(time);
	CREATE INDEX IF NOT EXISTS idx_payment_created_at ON payment_records(created_at);
	`

	_, err = hm.db.Exec(indexSchema)
	if err != nil {
		glog.Errorf("Failed to create indexes: %v", err)
		return err
	}

	glog.Infof("Database schema initialized successfully")
	return nil
}

// StoreRecord stores a new payment record
func (hm *HistoryModule) StoreRecord(record *PaymentRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if record.VendorID == "" {
		return fmt.Errorf("vendor_id field cannot be empty")
	}

	if record.TransactionID == "" && record.OrderID == "" {
		return fmt.Errorf("record needs a transaction_id or an order_id")
	}

	// Set current timestamp if not provided
	if record.Time == 0 {
		record.Time = time.Now().Unix()
	}

	// Validate extended field is valid JSON
	if record.Extended != "" {
		var temp interface{}
		if err := json.Unmarshal([]byte(record.Extended), &temp); err != nil {
			glog.Warningf("Invalid JSON in extended field, storing as plain text: %v", err)
		}
	}

	query := `
		INSERT INTO payment_records (type, transaction_id, order_id, vendor_id, status, payment_type, amount, utr, message, time, extended)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := hm.db.QueryRow(query, record.Type, record.TransactionID, record.OrderID, record.VendorID,
		record.Status, record.PaymentType, record.Amount, record.UTR, record.Message, record.Time, record.Extended).Scan(&record.ID)
	if err != nil {
		glog.Errorf("Failed to store payment record: %v", err)
		return err
	}

	glog.Infof("Stored payment record with ID: %d, type: %s, txn: %s, vendor: %s", record.ID, record.Type, record.TransactionID, record.VendorID)
	return nil
}

// RecordResolution appends a terminal payment resolution. This is the
// HistoryWriter seam the resolution flow publishes into.
func (hm *HistoryModule) RecordResolution(update types.PaymentResolvedUpdate) error {
	extended, err := json.Marshal(update)
	if err != nil {
		return err
	}

	record := &PaymentRecord{
		Type:          TypePaymentResolved,
		TransactionID: update.TransactionID,
		OrderID:       update.OrderID,
		VendorID:      update.VendorID,
		Status:        update.Status,
		PaymentType:   update.PaymentType,
		Amount:        update.Amount,
		UTR:           update.UTR,
		Message:       fmt.Sprintf("payment %s: %s", update.Status, update.Amount),
		Time:          update.Timestamp,
		Extended:      string(extended),
	}

	return hm.StoreRecord(record)
}

// RecordOrderPlaced appends an order submission event.
func (hm *HistoryModule) RecordOrderPlaced(update types.OrderPlacedUpdate) error {
	extended, err := json.Marshal(update)
	if err != nil {
		return err
	}

	record := &PaymentRecord{
		Type:          TypeOrderPlaced,
		TransactionID: update.TransactionID,
		OrderID:       update.OrderID,
		VendorID:      update.VendorID,
		Status:        "placed",
		Amount:        update.GrandTotal,
		Message:       fmt.Sprintf("order placed: %s", update.GrandTotal),
		Time:          update.Timestamp,
		Extended:      string(extended),
	}

	return hm.StoreRecord(record)
}

// QueryRecords queries payment records based on conditions
func (hm *HistoryModule) QueryRecords(condition *QueryCondition) ([]*PaymentRecord, error) {
	if condition == nil {
		condition = &QueryCondition{}
	}

	// Set default limit if not specified
	if condition.Limit <= 0 {
		condition.Limit = 100
	}

	query := "SELECT id, type, transaction_id, order_id, vendor_id, status, payment_type, amount, utr, message, time, extended FROM payment_records WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if condition.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, condition.Type)
		argIndex++
	}

	if condition.VendorID != "" {
		query += fmt.Sprintf(" AND vendor_id = $%d", argIndex)
		args = append(args, condition.VendorID)
		argIndex++
	}

	if condition.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, condition.Status)
		argIndex++
	}

	if condition.PaymentType != "" {
		query += fmt.Sprintf(" AND payment_type = $%d", argIndex)
		args = append(args, condition.PaymentType)
		argIndex++
	}

	if condition.TransactionID != "" {
		query += fmt.Sprintf(" AND transaction_id = $%d", argIndex)
		args = append(args, condition.TransactionID)
		argIndex++
	}

	if condition.StartTime > 0 {
		query += fmt.Sprintf(" AND time >= $%d", argIndex)
		args = append(args, condition.StartTime)
		argIndex++
	}

	if condition.EndTime > 0 {
		query += fmt.Sprintf(" AND time <= $%d", argIndex)
		args = append(args, condition.EndTime)
		argIndex++
	}

	query += " ORDER BY time DESC"

	if condition.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, condition.Limit)
		argIndex++
	}

	if condition.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, condition.Offset)
		argIndex++
	}

	glog.Infof("Executing query: %s with args: %v", query, args)

	rows, err := hm.db.Query(query, args...)
	if err != nil {
		glog.Errorf("Failed to query payment records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []*PaymentRecord
	for rows.Next() {
		record := &PaymentRecord{}
		err := rows.Scan(&record.ID, &record.Type, &record.TransactionID, &record.OrderID, &record.VendorID,
			&record.Status, &record.PaymentType, &record.Amount, &record.UTR, &record.Message, &record.Time, &record.Extended)
		if err != nil {
			glog.Errorf("Failed to scan payment record: %v", err)
			continue
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		glog.Errorf("Error during rows iteration: %v", err)
		return nil, err
	}

	glog.Infof("Retrieved %d payment records", len(records))
	return records, nil
}

// startCleanupRoutine starts a routine to cleanup old records
func (hm *HistoryModule) startCleanupRoutine() {
	// Get cleanup interval from environment, default to 24 hours
	intervalStr := os.Getenv("HISTORY_CLEANUP_INTERVAL_HOURS")
	interval, err := strconv.Atoi(intervalStr)
	if err != nil || interval <= 0 {
		interval = 24
	}

	hm.cleanupTicker = time.NewTicker(time.Duration(interval) * time.Hour)

	go func() {
		glog.Infof("Starting history cleanup routine with interval: %d hours", interval)

		hm.cleanupOldRecords()

		for {
			select {
			case <-hm.cleanupTicker.C:
				hm.cleanupOldRecords()
			case <-hm.ctx.Done():
				glog.Infof("History cleanup routine stopped")
				return
			}
		}
	}()
}

// cleanupOldRecords removes records older than 6 months. Invoices need a
// longer lookback than the dashboard, so this is deliberately generous.
func (hm *HistoryModule) cleanupOldRecords() {
	sixMonthsAgo := time.Now().AddDate(0, -6, 0).Unix()

	query := "DELETE FROM payment_records WHERE time < $1"

	result, err := hm.db.Exec(query, sixMonthsAgo)
	if err != nil {
		glog.Errorf("Failed to cleanup old payment records: %v", err)
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		glog.Warningf("Failed to get rows affected count: %v", err)
	} else {
		glog.Infof("Cleaned up %d old payment records (older than 6 months)", rowsAffected)
	}
}

// GetRecordCount returns the total count of records matching the condition
func (hm *HistoryModule) GetRecordCount(condition *QueryCondition) (int64, error) {
	if condition == nil {
		condition = &QueryCondition{}
	}

	query := "SELECT COUNT(*) FROM payment_records WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if condition.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, condition.Type)
		argIndex++
	}

	if condition.VendorID != "" {
		query += fmt.Sprintf(" AND vendor_id = $%d", argIndex)
		args = append(args, condition.VendorID)
		argIndex++
	}

	if condition.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, condition.Status)
		argIndex++
	}

	if condition.PaymentType != "" {
		query += fmt.Sprintf(" AND payment_type = $%d", argIndex)
		args = append(args, condition.PaymentType)
		argIndex++
	}

	if condition.TransactionID != "" {
		query += fmt.Sprintf(" AND transaction_id = $%d", argIndex)
		args = append(args, condition.TransactionID)
		argIndex++
	}

	if condition.StartTime > 0 {
		query += fmt.Sprintf(" AND time >= $%d", argIndex)
		args = append(args, condition.StartTime)
		argIndex++
	}

	if condition.EndTime > 0 {
		query += fmt.Sprintf(" AND time <= $%d", argIndex)
		args = append(args, condition.EndTime)
		argIndex++
	}

	var count int64
	err := hm.db.QueryRow(query, args...).Scan(&count)
	if err != nil {
		glog.Errorf("Failed to get record count: %v", err)
		return 0, err
	}

	return count, nil
}

// Close closes the database connection and stops cleanup routine
func (hm *HistoryModule) Close() error {
	glog.Infof("Closing history module")

	if hm.cleanupTicker != nil {
		hm.cleanupTicker.Stop()
	}

	if hm.cancel != nil {
		hm.cancel()
	}

	if hm.db != nil {
		return hm.db.Close()
	}

	return nil
}

// HealthCheck checks if the module is healthy
func (hm *HistoryModule) HealthCheck() error {
	if hm.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if err := hm.db.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %v", err)
	}

	return nil
}
