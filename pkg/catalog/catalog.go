// Package catalog reads the master-index spreadsheet that maps clients to
// their ad accounts and report spreadsheets.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
)

// DefaultTab is the master-index worksheet holding the client list.
const DefaultTab = "Monthly"

// SheetSource is the small read/write surface the catalog needs from the
// spreadsheet backend.
type SheetSource interface {
	GetRange(ctx context.Context, spreadsheetID, qualifiedRange string) ([][]string, error)
	UpdateCell(ctx context.Context, spreadsheetID, qualifiedCell, value string) error
}

// Client is one row of the master index: columns A..C under a header row.
type Client struct {
	AdAccountID   string
	AdName        string
	SpreadsheetID string
}

// NotFoundError reports a client name absent from the index.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("client not found in master index: %q", e.Name)
}

// Index looks clients up in the master-index spreadsheet.
type Index struct {
	source        SheetSource
	spreadsheetID string
	tab           string
}

func New(source SheetSource, spreadsheetID, tab string) *Index {
	if tab == "" {
		tab = DefaultTab
	}
	return &Index{source: source, spreadsheetID: spreadsheetID, tab: tab}
}

// LoadClients returns every catalog row with a non-empty ad name. The header
// row is skipped; short rows pad with empty strings.
func (ix *Index) LoadClients(ctx context.Context) ([]Client, error) {
	values, err := ix.source.GetRange(ctx, ix.spreadsheetID, ix.qualify("A:C"))
	if err != nil {
		return nil, fmt.Errorf("load master index: %w", err)
	}
	if len(values) < 2 {
		return nil, nil
	}
	var clients []Client
	for _, row := range values[1:] {
		c := rowToClient(row)
		if c.AdName != "" {
			clients = append(clients, c)
		}
	}
	return clients, nil
}

// FindClientByName matches on the ad_name column, ignoring case and
// surrounding whitespace.
func (ix *Index) FindClientByName(ctx context.Context, adName string) (Client, error) {
	_, c, err := ix.findRow(ctx, adName)
	return c, err
}

// WriteSpreadsheetID fills in column C for an existing client row.
func (ix *Index) WriteSpreadsheetID(ctx context.Context, adName, spreadsheetID string) error {
	rowIdx, _, err := ix.findRow(ctx, adName)
	if err != nil {
		return err
	}
	return ix.source.UpdateCell(ctx, ix.spreadsheetID, ix.qualify(fmt.Sprintf("C%d", rowIdx)), spreadsheetID)
}

func (ix *Index) findRow(ctx context.Context, adName string) (int, Client, error) {
	values, err := ix.source.GetRange(ctx, ix.spreadsheetID, ix.qualify("A:C"))
	if err != nil {
		return 0, Client{}, fmt.Errorf("load master index: %w", err)
	}
	target := utils.Normalize(adName)
	for i, row := range values {
		if i == 0 {
			continue // header
		}
		c := rowToClient(row)
		if utils.Normalize(c.AdName) == target {
			return i + 1, c, nil
		}
	}
	return 0, Client{}, &NotFoundError{Name: adName}
}

func (ix *Index) qualify(a1 string) string {
	return "'" + strings.ReplaceAll(ix.tab, "'", "''") + "'!" + a1
}

func rowToClient(row []string) Client {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	// column C holds either a bare spreadsheet ID or a full sheet URL
	sheetID := cell(2)
	if id, err := utils.SpreadsheetIDFromURL(sheetID); err == nil {
		sheetID = id
	}
	return Client{AdAccountID: cell(0), AdName: cell(1), SpreadsheetID: sheetID}
}

// Cache is an explicit time-bounded cache of the client list, shared by
// commands that enumerate clients repeatedly. It is injected where needed
// rather than held as package state.
type Cache struct {
	mu        sync.Mutex
	index     *Index
	ttl       time.Duration
	clients   []Client
	fetchedAt time.Time
	now       func() time.Time
}

func NewCache(index *Index, ttl time.Duration) *Cache {
	return &Cache{index: index, ttl: ttl, now: time.Now}
}

// GetOrRefresh returns the cached client list, reloading it from the master
// index when the TTL has expired or nothing is cached yet.
func (c *Cache) GetOrRefresh(ctx context.Context) ([]Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.clients) > 0 && c.now().Sub(c.fetchedAt) <= c.ttl {
		return c.clients, nil
	}
	clients, err := c.index.LoadClients(ctx)
	if err != nil {
		return nil, err
	}
	c.clients = clients
	c.fetchedAt = c.now()
	return clients, nil
}
