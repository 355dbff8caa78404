package sink

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/osmcore/relareas/area"
	"github.com/osmcore/relareas/internal/logger"
	"go.uber.org/zap"
)

const areaSRID = 4326

// PostgresSink stores assembled areas via bulk COPY: one CopyFrom per
// WriteAreas call, rows built from an in-memory slice since batches are
// already bounded by the output buffer's high-water mark.
type PostgresSink struct {
	pool   *pgxpool.Pool
	schema string
	table  string
}

// NewPostgresSink connects to dsn and ensures the destination table
// exists.
func NewPostgresSink(ctx context.Context, dsn, schema, table string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: connect: %w", err)
	}
	s := &PostgresSink{pool: pool, schema: schema, table: table}
	if err := s.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresSink) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
		osm_id bigint PRIMARY KEY,
		tags jsonb,
		valid boolean,
		problems jsonb,
		geom geometry(MultiPolygon, %d)
	)`, s.schema, s.table, areaSRID)
	_, err := s.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("sink: ensure table: %w", err)
	}
	return nil
}

// WriteAreas bulk-inserts a batch of areas via COPY, encoding each
// geometry as EWKB.
func (s *PostgresSink) WriteAreas(areas []area.Area) error {
	ctx := context.Background()
	log := logger.Get()

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("sink: acquire: %w", err)
	}
	defer conn.Release()

	rows := make([][]interface{}, 0, len(areas))
	for _, a := range areas {
		var tagsJSON, problemsJSON []byte
		if len(a.Tags) > 0 {
			tagsJSON, _ = json.Marshal(a.Tags)
		}
		if len(a.Problems) > 0 {
			problemsJSON, _ = json.Marshal(a.Problems)
		}

		var geomBytes []byte
		if a.Valid {
			mp := a.MultiPolygon().SetSRID(areaSRID)
			geomBytes, err = ewkb.Marshal(mp, binary.LittleEndian)
			if err != nil {
				return fmt.Errorf("sink: encode area %d: %w", a.ID, err)
			}
		}

		rows = append(rows, []interface{}{a.ID, tagsJSON, a.Valid, problemsJSON, geomBytes})
	}

	count, err := conn.Conn().CopyFrom(
		ctx,
		pgx.Identifier{s.schema, s.table},
		[]string{"osm_id", "tags", "valid", "problems", "geom"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("sink: copy to %s.%s: %w", s.schema, s.table, err)
	}
	log.Info("wrote area batch", zap.Int64("rows", count))
	return nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
