package app

import (
	"fmt"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/reporting/infrastructure/persistence"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
)

// NewDataSource creates the report data source for the connection's driver.
func NewDataSource(conn database.Connection) (domain.DataSource, error) {
	switch conn.Driver() {
	case database.DriverPostgres:
		return persistence.NewPostgresDataSource(conn), nil
	case database.DriverSQLite:
		return persistence.NewSQLiteDataSource(conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver())
	}
}
