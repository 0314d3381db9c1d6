package sqlstore

import (
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-datasource/core"
)

type registrationRecord struct {
	bun.BaseModel `bun:"table:datasource_registrations,alias:dsr"`

	ID         string    `bun:"id,pk"`
	Name       string    `bun:"name,notnull,unique"`
	DriverName string    `bun:"driver_name"`
	URL        string    `bun:"url"`
	State      string    `bun:"state,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newRegistrationRecord(handle core.ManagementHandle, now time.Time) *registrationRecord {
	return &registrationRecord{
		ID:         strings.TrimSpace(handle.ID),
		Name:       strings.TrimSpace(handle.Name),
		DriverName: strings.TrimSpace(handle.DriverName),
		URL:        RedactURL(handle.URL),
		State:      string(handle.State),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (r *registrationRecord) toHandle() core.ManagementHandle {
	if r == nil {
		return core.ManagementHandle{}
	}
	return core.ManagementHandle{
		ID:         r.ID,
		Name:       r.Name,
		DriverName: r.DriverName,
		URL:        r.URL,
		State:      core.LifecycleState(r.State),
	}
}
