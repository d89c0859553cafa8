// Package gateway is the only path between the service and the
// relational store. Records travel as JSON objects so that columns the
// store does not know about surface as store errors instead of being
// silently dropped on the way in.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"gourmetto/internal/domain/auth"
	"gourmetto/internal/domain/classify"
	"gourmetto/internal/domain/hr"
	"gourmetto/internal/domain/record"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Gateway struct {
	db DB
}

func New(db DB) *Gateway {
	return &Gateway{db: db}
}

// Probe reports whether the employees table answers a trivial read.
// An empty table is still reachable.
func (g *Gateway) Probe(ctx context.Context) bool {
	var id any
	err := g.db.QueryRow(ctx, `SELECT id FROM "employees" LIMIT 1`).Scan(&id)
	return err == nil || errors.Is(err, pgx.ErrNoRows)
}

func (g *Gateway) FetchAll(ctx context.Context, c Collection) ([]record.Record, error) {
	if !c.Valid() {
		return nil, readErr(c, ErrUnknownCollection)
	}
	sql := fmt.Sprintf(`SELECT COALESCE(jsonb_agg(%s ORDER BY %s), '[]'::jsonb) FROM %s t`,
		c.row(), c.orderBy(), c.table())
	return g.list(ctx, c, sql)
}

// FetchWhere lists the rows whose column equals value, in the
// collection's usual order.
func (g *Gateway) FetchWhere(ctx context.Context, c Collection, column, value string) ([]record.Record, error) {
	if !c.Valid() {
		return nil, readErr(c, ErrUnknownCollection)
	}
	sql := fmt.Sprintf(`SELECT COALESCE(jsonb_agg(%s ORDER BY %s), '[]'::jsonb) FROM %s t WHERE t.%s::text = $1`,
		c.row(), c.orderBy(), c.table(), pgx.Identifier{column}.Sanitize())
	return g.list(ctx, c, sql, value)
}

// Create inserts rec without its id and returns the stored row, server
// assigned id included.
func (g *Gateway) Create(ctx context.Context, c Collection, rec record.Record) (record.Record, error) {
	if !c.Valid() {
		return nil, writeErr(c, ErrUnknownCollection)
	}
	payload := record.Sanitize(record.Without(rec, record.IDField))
	var sql string
	var args []any
	if len(payload) == 0 {
		sql = fmt.Sprintf(`INSERT INTO %s AS t DEFAULT VALUES RETURNING %s`, c.table(), c.row())
	} else {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, writeErr(c, err)
		}
		cols := columnList(payload)
		sql = fmt.Sprintf(`INSERT INTO %s AS t (%s) SELECT %s FROM jsonb_populate_record(NULL::%s, $1::text::jsonb) AS r RETURNING %s`,
			c.table(), cols, prefixed("r", payload), c.table(), c.row())
		args = append(args, string(raw))
	}
	stored, err := g.one(ctx, sql, args...)
	if err != nil {
		return nil, writeErr(c, err)
	}
	return stored, nil
}

// Update applies patch to the row with the given id. A patch that is
// empty once sanitized returns the row unchanged.
func (g *Gateway) Update(ctx context.Context, c Collection, id string, patch record.Record) (record.Record, error) {
	if !c.Valid() {
		return nil, writeErr(c, ErrUnknownCollection)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, writeErr(c, ErrNotFound)
	}
	payload := record.Sanitize(record.Without(patch, record.IDField))
	if len(payload) == 0 {
		sql := fmt.Sprintf(`SELECT %s FROM %s t WHERE t."id" = $1`, c.row(), c.table())
		rec, err := g.one(ctx, sql, id)
		if err != nil {
			return nil, writeErr(c, err)
		}
		return rec, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, writeErr(c, err)
	}
	sets := make([]string, 0, len(payload))
	for _, key := range sortedKeys(payload) {
		col := pgx.Identifier{key}.Sanitize()
		sets = append(sets, col+" = r."+col)
	}
	sql := fmt.Sprintf(`UPDATE %s AS t SET %s FROM jsonb_populate_record(NULL::%s, $1::text::jsonb) AS r WHERE t."id" = $2 RETURNING %s`,
		c.table(), strings.Join(sets, ", "), c.table(), c.row())
	rec, err := g.one(ctx, sql, string(raw), id)
	if err != nil {
		return nil, writeErr(c, err)
	}
	return rec, nil
}

// Delete removes one row. Dependent events and documents go with an
// employee through the store's cascade.
func (g *Gateway) Delete(ctx context.Context, c Collection, id string) error {
	if !c.Valid() {
		return writeErr(c, ErrUnknownCollection)
	}
	if _, err := uuid.Parse(id); err != nil {
		return writeErr(c, ErrNotFound)
	}
	tag, err := g.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s t WHERE t."id" = $1`, c.table()), id)
	if err != nil {
		return writeErr(c, err)
	}
	if tag.RowsAffected() == 0 {
		return writeErr(c, ErrNotFound)
	}
	return nil
}

// Authenticate never reports why a login failed to the caller. Lookup
// failures other than an unknown email are logged with their
// classification so a drifted users table does not go unnoticed.
func (g *Gateway) Authenticate(ctx context.Context, email, password string) (*hr.AppUser, bool) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, false
	}
	var raw []byte
	var hash string
	err := g.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s, t."password_hash" FROM "users" t WHERE lower(t."email") = lower($1) LIMIT 1`, Users.row()), email).
		Scan(&raw, &hash)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Error().Err(err).Str("kind", classify.Classify(err).String()).Msg("credential lookup failed")
		}
		return nil, false
	}
	if auth.CheckPassword(hash, password) != nil {
		return nil, false
	}
	var user hr.AppUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}

// RegisterUser stores a new operator with a bcrypt hash of password.
func (g *Gateway) RegisterUser(ctx context.Context, name, email, password, role string) (*hr.AppUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, writeErr(Users, err)
	}
	stored, err := g.Create(ctx, Users, record.Record{
		"name":          name,
		"email":         strings.ToLower(strings.TrimSpace(email)),
		"role":          role,
		"password_hash": hash,
	})
	if err != nil {
		return nil, err
	}
	var user hr.AppUser
	if err := record.Decode(stored, &user); err != nil {
		return nil, writeErr(Users, err)
	}
	return &user, nil
}

func (g *Gateway) list(ctx context.Context, c Collection, sql string, args ...any) ([]record.Record, error) {
	var raw []byte
	if err := g.db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return nil, readErr(c, err)
	}
	var out []record.Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, readErr(c, err)
	}
	if out == nil {
		out = []record.Record{}
	}
	return out, nil
}

func (g *Gateway) one(ctx context.Context, sql string, args ...any) (record.Record, error) {
	var raw []byte
	if err := g.db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var out record.Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortedKeys(r record.Record) []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func columnList(r record.Record) string {
	keys := sortedKeys(r)
	cols := make([]string, len(keys))
	for i, key := range keys {
		cols[i] = pgx.Identifier{key}.Sanitize()
	}
	return strings.Join(cols, ", ")
}

func prefixed(alias string, r record.Record) string {
	keys := sortedKeys(r)
	cols := make([]string, len(keys))
	for i, key := range keys {
		cols[i] = alias + "." + pgx.Identifier{key}.Sanitize()
	}
	return strings.Join(cols, ", ")
}
