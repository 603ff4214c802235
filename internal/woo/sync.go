package woo

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"linguaops/internal/config"
	"linguaops/internal/storage"
)

// SyncService caches the recent order window locally so bank matching
// does not hit the store API per statement upload.
type SyncService struct {
	db     *storage.DB
	client *Client
	log    *logrus.Logger
}

func NewSyncService(db *storage.DB, cfg config.Config, log *logrus.Logger) *SyncService {
	return &SyncService{db: db, client: NewClient(cfg), log: log}
}

func (s *SyncService) SyncRecent(ctx context.Context, limit int) (int, error) {
	orders, err := s.client.ListRecentOrders(ctx, limit)
	if err != nil {
		return 0, err
	}
	if err := s.db.UpsertOrders(orders); err != nil {
		return 0, err
	}
	if err := s.db.SetMetadata("lastOrderSync", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, err
	}
	s.log.WithField("orders", len(orders)).Info("order window synced")
	return len(orders), nil
}
