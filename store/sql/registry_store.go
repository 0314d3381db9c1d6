package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-datasource/core"
)

// RegistryStore persists management handles so an out-of-process monitor can
// inspect every factory across restarts. Registering an already-known name
// refreshes the stored row rather than failing; the factory treats the whole
// call as best-effort either way.
type RegistryStore struct {
	db   *bun.DB
	repo repository.Repository[*registrationRecord]
}

func (s *RegistryStore) Register(ctx context.Context, handle core.ManagementHandle) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: registry store is not configured")
	}
	name := strings.TrimSpace(handle.Name)
	if name == "" {
		return fmt.Errorf("sqlstore: registration name is required")
	}

	now := time.Now().UTC()
	existing, err := s.findByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.DriverName = strings.TrimSpace(handle.DriverName)
		existing.URL = RedactURL(handle.URL)
		existing.State = string(handle.State)
		existing.UpdatedAt = now
		_, err = s.repo.Update(ctx, existing, repository.UpdateByID(existing.ID))
		return err
	}

	record := newRegistrationRecord(handle, now)
	if parseUUID(record.ID) == uuid.Nil {
		record.ID = uuid.NewString()
	}
	_, err = s.repo.Create(ctx, record)
	return err
}

func (s *RegistryStore) Unregister(ctx context.Context, name string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: registry store is not configured")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("sqlstore: registration name is required")
	}
	_, err := s.db.NewDelete().
		Model((*registrationRecord)(nil)).
		Where("name = ?", trimmed).
		Exec(ctx)
	return err
}

func (s *RegistryStore) Get(ctx context.Context, name string) (core.ManagementHandle, bool, error) {
	if s == nil || s.repo == nil {
		return core.ManagementHandle{}, false, fmt.Errorf("sqlstore: registry store is not configured")
	}
	record, err := s.findByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return core.ManagementHandle{}, false, err
	}
	if record == nil {
		return core.ManagementHandle{}, false, nil
	}
	return record.toHandle(), true, nil
}

func (s *RegistryStore) Handles(ctx context.Context) ([]core.ManagementHandle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: registry store is not configured")
	}
	records, _, err := s.repo.List(ctx, repository.OrderBy("name ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]core.ManagementHandle, 0, len(records))
	for _, record := range records {
		out = append(out, record.toHandle())
	}
	return out, nil
}

func (s *RegistryStore) findByName(ctx context.Context, name string) (*registrationRecord, error) {
	records, _, err := s.repo.List(ctx, repository.SelectBy("name", "=", name))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
