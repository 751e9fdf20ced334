package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type retryRow struct {
	ctx         context.Context
	query       func() *sql.Row
	retryable   func(error) bool
	timeout     time.Duration
	queryText   string
	queryCaller string
}

func (r retryRow) Scan(dest ...any) error {
	start := time.Now()
	for attempt := 0; ; attempt++ {
		err := r.query().Scan(dest...)
		if err == nil || !r.retryable(err) {
			slog.Debug("sql query row done", "duration_ms", time.Since(start).Milliseconds(), "attempts", attempt+1, "err", err)
			return err
		}
		slog.Debug("sql query row busy", "query", r.queryText, "caller", r.queryCaller, "attempt", attempt+1, "err", err)
		if stop, reason := shouldStopRetry(r.ctx, start, r.timeout); stop {
			slog.Debug("sql query row done", "duration_ms", time.Since(start).Milliseconds(), "attempts", attempt+1, "err", err, "reason", reason)
			if reason == "context" {
				return r.ctx.Err()
			}
			return err
		}
		time.Sleep(retryDelay(attempt))
	}
}

func (s *Store) queryRowContext(ctx context.Context, query string, args ...any) rowScanner {
	_, file, line, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		caller = file + ":" + fmt.Sprint(line)
	}
	query = s.dialect.rebind(query)
	slog.Debug("sql query row", "query", query, "args", args, "caller", caller)
	return retryRow{
		ctx:         ctx,
		query:       func() *sql.Row { return s.db.QueryRowContext(ctx, query, args...) },
		retryable:   s.dialect.retryable,
		timeout:     s.lockTimeout,
		queryText:   query,
		queryCaller: caller,
	}
}

func (s *Store) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = s.dialect.rebind(query)
	slog.Debug("sql exec", "query", query, "args", args)
	start := time.Now()
	for attempt := 0; ; attempt++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil || !s.dialect.retryable(err) {
			slog.Debug("sql exec done", "duration_ms", time.Since(start).Milliseconds(), "attempts", attempt+1, "err", err)
			return res, err
		}
		if stop, reason := shouldStopRetry(ctx, start, s.lockTimeout); stop {
			slog.Debug("sql exec done", "duration_ms", time.Since(start).Milliseconds(), "attempts", attempt+1, "err", err, "reason", reason)
			if reason == "context" {
				return nil, ctx.Err()
			}
			return nil, err
		}
		time.Sleep(retryDelay(attempt))
	}
}

func (s *Store) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = s.dialect.rebind(query)
	slog.Debug("sql query", "query", query, "args", args)
	start := time.Now()
	for attempt := 0; ; attempt++ {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err == nil || !s.dialect.retryable(err) {
			slog.Debug("sql query done", "duration_ms", time.Since(start).Milliseconds(), "attempts", attempt+1, "err", err)
			return rows, err
		}
		if stop, reason := shouldStopRetry(ctx, start, s.lockTimeout); stop {
			slog.Debug("sql query done", "duration_ms", time.Since(start).Milliseconds(), "attempts", attempt+1, "err", err, "reason", reason)
			if reason == "context" {
				return nil, ctx.Err()
			}
			return nil, err
		}
		time.Sleep(retryDelay(attempt))
	}
}

func shouldStopRetry(ctx context.Context, start time.Time, timeout time.Duration) (bool, string) {
	if timeout <= 0 {
		return true, "no-timeout"
	}
	if ctx.Err() != nil {
		return true, "context"
	}
	if time.Since(start) >= timeout {
		return true, "timeout"
	}
	return false, ""
}

func retryDelay(attempt int) time.Duration {
	delay := time.Duration(attempt+1) * 40 * time.Millisecond
	if delay > 300*time.Millisecond {
		delay = 300 * time.Millisecond
	}
	return delay
}
