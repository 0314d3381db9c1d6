package sqlstore

import "github.com/goliatone/go-datasource/core"

var _ core.ManagementRegistry = (*RegistryStore)(nil)
