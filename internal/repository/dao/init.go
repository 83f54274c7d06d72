package dao

import (
	"context"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"
)

var ErrBackendUnavailable = errors.New("backing store unavailable")

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Message{},
		&Item{},
		&Transaction{},
		&StoreConfig{},
	)
}

// wrapBackendErr converts transport-level failures (timeouts, refused
// connections) into ErrBackendUnavailable so callers can retry with backoff.
// Logical errors pass through untouched.
func wrapBackendErr(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return err
}
