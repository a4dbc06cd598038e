package db

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	defaultDBPath = "./sqlite.db"
)

// DBBlock is a block the host has executed transactions in
type DBBlock struct {
	Height uint64 `gorm:"column:height;primaryKey;autoIncrement:false"`
	Time   int64  `gorm:"column:block_time;not null"`
	Hash   string `gorm:"column:block_hash;not null;size:64"`
}

func (DBBlock) TableName() string {
	return "blocks"
}

// DBState is one key-value pair of contract or host state
type DBState struct {
	Key   string `gorm:"column:state_key;primaryKey;size:512"` // hex encoded
	Value []byte `gorm:"column:state_value;type:blob;not null"`
}

// TableName specifies the table name for DBState
func (DBState) TableName() string {
	return "states"
}

// DBEvent represents an event in the database
type DBEvent struct {
	gorm.Model
	BlockHeight uint64 `gorm:"column:block_height;not null;index"`
	TxIndex     uint64 `gorm:"column:tx_index;not null"`
	Contract    string `gorm:"column:contract_address;not null;index;size:128"`
	EventName   string `gorm:"column:event_name;not null;index;size:255"`
	Attributes  []byte `gorm:"column:attributes;type:blob;not null"` // JSON encoded attributes
}

// TableName specifies the table name for DBEvent
func (DBEvent) TableName() string {
	return "events"
}

// Context implements types.BlockchainContext on SQLite through GORM
type Context struct {
	db *gorm.DB

	mu           sync.RWMutex
	currentBlock DBBlock
}

func init() {
	if err := context.Register(context.DBContextType, NewContext); err != nil {
		panic(err)
	}
}

// NewContext opens (or creates) the database at params["db_path"]
func NewContext(params map[string]any) (types.BlockchainContext, error) {
	dbPath := defaultDBPath
	if path, ok := params["db_path"].(string); ok && path != "" {
		dbPath = path
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx := &Context{db: db}
	if err := ctx.initDB(); err != nil {
		return nil, err
	}
	slog.Debug("opened sqlite context", "path", dbPath, "height", ctx.currentBlock.Height)
	return ctx, nil
}

func (c *Context) initDB() error {
	if err := c.db.AutoMigrate(&DBBlock{}, &DBState{}, &DBEvent{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// resume from the latest known block
	var block DBBlock
	result := c.db.Order("height DESC").Limit(1).Find(&block)
	if result.Error != nil {
		return fmt.Errorf("failed to load latest block: %w", result.Error)
	}
	c.currentBlock = block
	return nil
}

// SetBlockInfo implements types.BlockchainContext
func (c *Context) SetBlockInfo(height uint64, time int64, hash types.Hash) error {
	block := DBBlock{Height: height, Time: time, Hash: hash.String()}
	err := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "height"}},
		DoUpdates: clause.AssignmentColumns([]string{"block_time", "block_hash"}),
	}).Create(&block).Error
	if err != nil {
		return fmt.Errorf("failed to save block: %w", err)
	}

	c.mu.Lock()
	c.currentBlock = block
	c.mu.Unlock()
	return nil
}

// BlockHeight implements types.BlockchainContext
func (c *Context) BlockHeight() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentBlock.Height
}

// BlockTime implements types.BlockchainContext
func (c *Context) BlockTime() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentBlock.Time
}

// BlockHash implements types.BlockchainContext
func (c *Context) BlockHash() types.Hash {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return types.HashFromString(c.currentBlock.Hash)
}

// Get implements types.BlockchainContext
func (c *Context) Get(key []byte) ([]byte, error) {
	var state DBState
	err := c.db.Where("state_key = ?", hex.EncodeToString(key)).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return state.Value, nil
}

// Commit implements types.BlockchainContext
func (c *Context) Commit(batch *types.Batch) error {
	if batch.IsEmpty() {
		return nil
	}
	return c.db.Transaction(func(tx *gorm.DB) error {
		for _, w := range batch.Writes {
			key := hex.EncodeToString(w.Key)
			if w.Delete {
				if err := tx.Where("state_key = ?", key).Delete(&DBState{}).Error; err != nil {
					return fmt.Errorf("failed to delete state: %w", err)
				}
				continue
			}
			value := w.Value
			if value == nil {
				value = []byte{}
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "state_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"state_value"}),
			}).Create(&DBState{Key: key, Value: value}).Error
			if err != nil {
				return fmt.Errorf("failed to write state: %w", err)
			}
		}

		for _, ev := range batch.Events {
			data, err := json.Marshal(ev.Attributes)
			if err != nil {
				return fmt.Errorf("failed to marshal event attributes: %w", err)
			}
			event := &DBEvent{
				BlockHeight: ev.BlockHeight,
				TxIndex:     ev.TxIndex,
				Contract:    ev.Contract.String(),
				EventName:   ev.Type,
				Attributes:  data,
			}
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("failed to save event: %w", err)
			}
			slog.Info("Contract event", "block", ev.BlockHeight, "contract", ev.Contract, "event", ev.Type)
		}
		return nil
	})
}

// Events implements types.BlockchainContext
func (c *Context) Events(contract core.Address) ([]types.EventRecord, error) {
	var rows []DBEvent
	err := c.db.Where("contract_address = ?", contract.String()).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	events := make([]types.EventRecord, 0, len(rows))
	for _, row := range rows {
		var attrs []core.Attribute
		if err := json.Unmarshal(row.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", row.ID, err)
		}
		events = append(events, types.EventRecord{
			BlockHeight: row.BlockHeight,
			TxIndex:     row.TxIndex,
			Contract:    core.Address(row.Contract),
			Type:        row.EventName,
			Attributes:  attrs,
		})
	}
	return events, nil
}

// Close releases the underlying database handle
func (c *Context) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
