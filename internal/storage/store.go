package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Errors surfaced to callers so handlers can map them to status codes
// without importing gorm.
var (
	ErrNotFound  = gorm.ErrRecordNotFound
	ErrDuplicate = gorm.ErrDuplicatedKey
)

// insertBatchSize bounds the row count per INSERT during statement
// ingestion.
const insertBatchSize = 100

// Store wraps the database handle with the operations the handlers and
// the ingestion pipeline need.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&User{}, &Tag{}, &BankStatement{}, &Transaction{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateUser inserts a new user. Returns ErrDuplicate when the email is
// already registered.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up by email. Returns ErrNotFound when no
// account exists.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching user by email: %w", err)
	}
	return &user, nil
}

// ListTags returns the user's tags ordered by name.
func (s *Store) ListTags(ctx context.Context, userID string) ([]Tag, error) {
	var tags []Tag
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// FindTagByName returns the user's tag with the given name, or
// ErrNotFound.
func (s *Store) FindTagByName(ctx context.Context, userID, name string) (*Tag, error) {
	var tag Tag
	err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching tag %q: %w", name, err)
	}
	return &tag, nil
}

// CreateTag inserts a tag.
func (s *Store) CreateTag(ctx context.Context, tag *Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("creating tag: %w", err)
	}
	return nil
}

// CreateStatement records an uploaded statement file.
func (s *Store) CreateStatement(ctx context.Context, stmt *BankStatement) error {
	if err := s.db.WithContext(ctx).Create(stmt).Error; err != nil {
		return fmt.Errorf("creating statement: %w", err)
	}
	return nil
}

// CreateTransaction inserts one manually entered transaction.
func (s *Store) CreateTransaction(ctx context.Context, txn *Transaction) error {
	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}
	return nil
}

// InsertTransactionsBatch inserts imported transactions in batches.
// There is no FITID uniqueness check: the same statement uploaded twice
// yields twice the rows.
func (s *Store) InsertTransactionsBatch(ctx context.Context, txns []Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(txns, insertBatchSize).Error; err != nil {
		return fmt.Errorf("inserting transaction batch: %w", err)
	}
	return nil
}

// ListTransactions returns the user's transactions with their tags,
// newest first.
func (s *Store) ListTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	var txns []Transaction
	err := s.db.WithContext(ctx).
		Preload("Tag").
		Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txns, nil
}

// ListTransactionsSince returns the user's transactions dated at or
// after the cutoff, oldest first, with tags preloaded.
func (s *Store) ListTransactionsSince(ctx context.Context, userID string, since time.Time) ([]Transaction, error) {
	var txns []Transaction
	err := s.db.WithContext(ctx).
		Preload("Tag").
		Where("user_id = ? AND transaction_date >= ?", userID, since).
		Order("transaction_date ASC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("listing transactions since %s: %w", since.Format("2006-01-02"), err)
	}
	return txns, nil
}
