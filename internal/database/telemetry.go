package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const dbTracerName = "github.com/enerlytic/solarplan-go/internal/database"

// TracedPool wraps a DatabasePool and records a span per statement. It
// satisfies DatabasePool itself, so repositories can be handed either the
// raw pool or the traced one.
type TracedPool struct {
	pool DatabasePool
}

func NewTracedPool(pool DatabasePool) *TracedPool {
	return &TracedPool{pool: pool}
}

func (t *TracedPool) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	ctx, span := t.startSpan(ctx, "db.query", sql)
	defer span.End()

	rows, err := t.pool.Query(ctx, sql, args...)
	recordResult(span, err)
	return rows, err
}

func (t *TracedPool) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	ctx, span := t.startSpan(ctx, "db.query_row", sql)
	defer span.End()

	// Row errors only surface on Scan, so the span carries the statement alone.
	return t.pool.QueryRow(ctx, sql, args...)
}

func (t *TracedPool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	ctx, span := t.startSpan(ctx, "db.exec", sql)
	defer span.End()

	tag, err := t.pool.Exec(ctx, sql, args...)
	recordResult(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int64("db.rows_affected", tag.RowsAffected()))
	}
	return tag, err
}

func (t *TracedPool) startSpan(ctx context.Context, name, sql string) (context.Context, trace.Span) {
	return otel.Tracer(dbTracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", sql),
		),
	)
}

func recordResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
