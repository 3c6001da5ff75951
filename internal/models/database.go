package models

import (
	"encoding/json"
	"fmt"
	"strings"

	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
	"golang.org/x/exp/slog"
)

// SnapshotStore keeps exported channel snapshots
type SnapshotStore interface {
	StoreChannel(channel *Channel) error
	GetLatestChannel(channelID string) (*ChannelExport, error)
}

// Database represents the database connection and operations
type Database struct {
	db     *sqlitecloud.SQCloud
	logger *slog.Logger
}

// NewDatabase creates a new database connection
func NewDatabase(connStr string, logger *slog.Logger) (*Database, error) {
	logger.Info("connecting to SQLite Cloud", "db", MaskConnectionString(connStr))

	db, err := sqlitecloud.Connect(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	database := &Database{
		db:     db,
		logger: logger,
	}

	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

// MaskConnectionString hides the API key in logs
func MaskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.SplitN(connStr, "apikey=", 2)
		return parts[0] + "apikey=***"
	}
	return connStr
}

func (d *Database) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS channel_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			channel_id TEXT NOT NULL,
			export_data TEXT NOT NULL,
			raw_data TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_channel_snapshots_channel_id ON channel_snapshots(channel_id)`,
	}

	for _, table := range tables {
		if err := d.db.Execute(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// StoreChannel stores a snapshot of the channel
func (d *Database) StoreChannel(channel *Channel) error {
	data, err := json.Marshal(channel.Export())
	if err != nil {
		return err
	}

	d.logger.Info("storing channel snapshot", "channel", channel.ChannelID())

	sql := `INSERT INTO channel_snapshots (channel_id, export_data, raw_data)
			VALUES (?, ?, ?)`

	return d.db.ExecuteArray(sql, []interface{}{channel.ChannelID(), string(data), string(channel.RawSnapshot())})
}

// GetLatestChannel retrieves the most recent snapshot of a channel
func (d *Database) GetLatestChannel(channelID string) (*ChannelExport, error) {
	sql := `SELECT export_data FROM channel_snapshots
			WHERE channel_id = ?
			ORDER BY created_at DESC, id DESC LIMIT 1`

	result, err := d.db.SelectArray(sql, []interface{}{channelID})
	if err != nil {
		return nil, err
	}

	if result.GetNumberOfRows() == 0 {
		return nil, fmt.Errorf("no snapshot for channel %s: %w", channelID, ErrNotFound)
	}

	data, err := result.GetStringValue(0, 0)
	if err != nil {
		return nil, err
	}

	var export ChannelExport
	if err := json.Unmarshal([]byte(data), &export); err != nil {
		return nil, fmt.Errorf("%w: snapshot for channel %s: %v", ErrMalformedPayload, channelID, err)
	}
	return &export, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
