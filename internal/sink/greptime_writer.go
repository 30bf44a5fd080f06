package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"

	"tzvalidate/internal/sample"
)

const (
	// DefaultGreptimePort is the gRPC port of GreptimeDB.
	DefaultGreptimePort = 4001
	// DefaultSampleTable holds one row per sample.
	DefaultSampleTable = "tz_samples"
)

// greptimeClient is the subset of the ingester client the writer uses.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes samples to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
	log    *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port").
func NewGreptimeDBWriter(endpoint, database, tableName string, log *slog.Logger) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if database == "" {
		database = "public"
	}
	if tableName == "" {
		tableName = DefaultSampleTable
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &GreptimeDBWriter{client: client, table: tableName, log: log}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	if endpoint == "" {
		return "", 0, fmt.Errorf("greptime endpoint is empty")
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, DefaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("greptime endpoint %q: invalid port", endpoint)
	}
	return host, port, nil
}

// WriteZone inserts all items of a zone in one request.
func (w *GreptimeDBWriter) WriteZone(runID, zone string, items []sample.Item) error {
	if len(items) == 0 {
		return nil
	}
	tbl, err := w.buildTable(runID, zone, items)
	if err != nil {
		return err
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("greptime write failed", "zone", zone, "error", err)
		return err
	}
	w.log.Debug("greptime rows written", "zone", zone, "rows", len(items))
	return nil
}

func (w *GreptimeDBWriter) buildTable(runID, zone string, items []sample.Item) (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	for _, c := range []string{"run_id", "zone", "kind"} {
		if err := tbl.AddTagColumn(c, types.STRING); err != nil {
			return nil, err
		}
	}
	for _, c := range []string{"total_offset", "dst_offset"} {
		if err := tbl.AddFieldColumn(c, types.INT64); err != nil {
			return nil, err
		}
	}
	for _, c := range []string{"abbrev", "local", "resolution"} {
		if err := tbl.AddFieldColumn(c, types.STRING); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_SECOND); err != nil {
		return nil, err
	}

	for _, it := range items {
		err := tbl.AddRow(
			runID, zone, string(it.Kind),
			int64(it.TotalOffset), int64(it.DSTOffset),
			it.Abbrev, it.Local.String(), string(it.Resolution),
			time.Unix(it.Instant, 0).UTC(),
		)
		if err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
