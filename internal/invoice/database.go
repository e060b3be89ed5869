package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	invoiceBucketName = "invoices"
	paymentBucketName = "payments"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// DB defines the interface for database operations
type DB interface {
	SaveInvoice(invoice *Invoice) error
	GetInvoice(id string) (*Invoice, error)
	ListInvoices() ([]*Invoice, error)
	DeleteInvoice(id string) error

	// RecordPayment saves a payment and the invoices it settled atomically
	RecordPayment(payment *Payment, invoices []*Invoice) error
	GetPayment(id string) (*Payment, error)
	ListPayments() ([]*Payment, error)

	Close() error
}

// BoltDB implements DB on a bbolt file
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens (or creates) the database at path
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{invoiceBucketName, paymentBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func putTx(tx *bbolt.Tx, bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", bucket, err)
	}
	return tx.Bucket([]byte(bucket)).Put([]byte(key), data)
}

func put(db *bbolt.DB, bucket, key string, v any) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return putTx(tx, bucket, key, v)
	})
}

func get(db *bbolt.DB, bucket, key string, v any) error {
	return db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s %s: %w", bucket, key, ErrNotFound)
		}
		return json.Unmarshal(data, v)
	})
}

func list[T any](db *bbolt.DB, bucket string) ([]*T, error) {
	out := make([]*T, 0)
	err := db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(k, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("unmarshaling %s %s: %w", bucket, k, err)
			}
			out = append(out, &item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveInvoice creates or replaces an invoice
func (b *BoltDB) SaveInvoice(invoice *Invoice) error {
	return put(b.db, invoiceBucketName, invoice.ID, invoice)
}

// GetInvoice retrieves an invoice by ID
func (b *BoltDB) GetInvoice(id string) (*Invoice, error) {
	var invoice Invoice
	if err := get(b.db, invoiceBucketName, id, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListInvoices returns all invoices in key order
func (b *BoltDB) ListInvoices() ([]*Invoice, error) {
	return list[Invoice](b.db, invoiceBucketName)
}

// DeleteInvoice removes an invoice
func (b *BoltDB) DeleteInvoice(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invoiceBucketName))
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%s %s: %w", invoiceBucketName, id, ErrNotFound)
		}
		return bucket.Delete([]byte(id))
	})
}

// SavePayment creates or replaces a payment
func (b *BoltDB) SavePayment(payment *Payment) error {
	return put(b.db, paymentBucketName, payment.ID, payment)
}

// RecordPayment writes the payment and its invoices in one transaction
func (b *BoltDB) RecordPayment(payment *Payment, invoices []*Invoice) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := putTx(tx, paymentBucketName, payment.ID, payment); err != nil {
			return err
		}
		for _, invoice := range invoices {
			if err := putTx(tx, invoiceBucketName, invoice.ID, invoice); err != nil {
				return fmt.Errorf("updating invoice %s: %w", invoice.ID, err)
			}
		}
		return nil
	})
}

// GetPayment retrieves a payment by ID
func (b *BoltDB) GetPayment(id string) (*Payment, error) {
	var payment Payment
	if err := get(b.db, paymentBucketName, id, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments returns all payments in key order
func (b *BoltDB) ListPayments() ([]*Payment, error) {
	return list[Payment](b.db, paymentBucketName)
}

// Close closes the database
func (b *BoltDB) Close() error {
	return b.db.Close()
}
