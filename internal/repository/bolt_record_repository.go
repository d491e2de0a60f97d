package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	bolt "github.com/boltdb/bolt"
)

const recordsBucket = "records"

type boltRecordRepository struct {
	db *bolt.DB
}

// NewBoltRecordRepository opens (or creates) a BoltDB file at path and makes
// sure the records bucket exists. Bolt holds an exclusive file lock, so only
// one process can use the file at a time.
func NewBoltRecordRepository(path string) (RecordRepository, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records bucket: %w", err)
	}

	return &boltRecordRepository{db: db}, nil
}

func (r *boltRecordRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(recordsBucket)).Get([]byte(key))
		if v == nil {
			return ErrRecordNotFound
		}
		// bolt values are only valid inside the transaction
		value = slices.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (r *boltRecordRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(recordsBucket)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

// Delete is a no-op for keys that do not exist
func (r *boltRecordRepository) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(recordsBucket)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (r *boltRecordRepository) Close() error {
	return r.db.Close()
}
