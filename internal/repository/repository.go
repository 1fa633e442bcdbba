package repository

import (
	"context"
	"fmt"
	"strings"

	"kajianhub/backend/internal/dedup"
	"kajianhub/backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const kajianColumns = `id, region, city, venue, address, map_url, speaker, topic, time_label, date_label, contact, source, created_at, updated_at`

func (r *Repository) CreateKajian(ctx context.Context, k models.Kajian) (models.Kajian, error) {
	query := `
INSERT INTO kajian (region, city, venue, address, map_url, speaker, topic, time_label, date_label, contact, source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + kajianColumns + `;`

	row := r.pool.QueryRow(ctx, query,
		k.Region, k.City, k.Venue, k.Address, k.MapURL,
		k.Speaker, k.Topic, k.TimeLabel, k.DateLabel, k.Contact, k.Source)
	return scanKajian(row)
}

func (r *Repository) GetKajian(ctx context.Context, id int64) (models.Kajian, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+kajianColumns+` FROM kajian WHERE id = $1`, id)
	return scanKajian(row)
}

// ListKajian filters by exact city (optional) and a free-text query over
// venue, speaker and topic (optional).
func (r *Repository) ListKajian(ctx context.Context, city, query string, limit, offset int) ([]models.Kajian, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
	if city != "" {
		args = append(args, city)
		where = append(where, fmt.Sprintf("lower(city) = lower($%d)", len(args)))
	}
	if query != "" {
		args = append(args, "%"+query+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(venue ILIKE $%d OR speaker ILIKE $%d OR topic ILIKE $%d)", n, n, n))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM kajian`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM kajian%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		kajianColumns, clause, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]models.Kajian, 0)
	for rows.Next() {
		item, err := scanKajian(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *Repository) UpdateKajian(ctx context.Context, k models.Kajian) (models.Kajian, error) {
	query := `
UPDATE kajian
SET region = $2, city = $3, venue = $4, address = $5, map_url = $6,
	speaker = $7, topic = $8, time_label = $9, date_label = $10, contact = $11,
	updated_at = now()
WHERE id = $1
RETURNING ` + kajianColumns + `;`

	row := r.pool.QueryRow(ctx, query, k.ID,
		k.Region, k.City, k.Venue, k.Address, k.MapURL,
		k.Speaker, k.Topic, k.TimeLabel, k.DateLabel, k.Contact)
	return scanKajian(row)
}

func (r *Repository) DeleteKajian(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kajian WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("kajian %d not found", id)
	}
	return nil
}

// VenueNameAggregates returns every distinct venue spelling with its
// aggregated city and address lists, in first-seen order. This is the
// snapshot the duplicate detector consumes.
func (r *Repository) VenueNameAggregates(ctx context.Context) ([]dedup.NameRecord, error) {
	return r.nameAggregates(ctx, `
SELECT venue,
	string_agg(DISTINCT city, ', ') FILTER (WHERE city <> '' AND city <> 'TBD'),
	string_agg(DISTINCT address, ', ') FILTER (WHERE address <> ''),
	min(id)
FROM kajian
WHERE venue <> '' AND venue <> 'TBD'
GROUP BY venue
ORDER BY min(id);`)
}

// SpeakerNameAggregates is the speaker-side snapshot for the detector.
func (r *Repository) SpeakerNameAggregates(ctx context.Context) ([]dedup.NameRecord, error) {
	return r.nameAggregates(ctx, `
SELECT speaker,
	string_agg(DISTINCT city, ', ') FILTER (WHERE city <> '' AND city <> 'TBD'),
	string_agg(DISTINCT address, ', ') FILTER (WHERE address <> ''),
	min(id)
FROM kajian
WHERE speaker <> '' AND speaker <> 'TBD'
GROUP BY speaker
ORDER BY min(id);`)
}

func (r *Repository) nameAggregates(ctx context.Context, query string) ([]dedup.NameRecord, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]dedup.NameRecord, 0)
	for rows.Next() {
		var record dedup.NameRecord
		var cities, addresses *string
		var firstID int64
		if err := rows.Scan(&record.Name, &cities, &addresses, &firstID); err != nil {
			return nil, err
		}
		if cities != nil {
			record.Cities = *cities
		}
		if addresses != nil {
			record.Addresses = *addresses
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// MergeVenueNames rewrites every record using one of the variant spellings to
// the canonical one. Returns the number of records touched.
func (r *Repository) MergeVenueNames(ctx context.Context, canonical string, variants []string) (int64, error) {
	return r.mergeNames(ctx, "venue", canonical, variants)
}

// MergeSpeakerNames is the speaker-side merge write.
func (r *Repository) MergeSpeakerNames(ctx context.Context, canonical string, variants []string) (int64, error) {
	return r.mergeNames(ctx, "speaker", canonical, variants)
}

func (r *Repository) mergeNames(ctx context.Context, column, canonical string, variants []string) (int64, error) {
	if canonical == "" || len(variants) == 0 {
		return 0, fmt.Errorf("canonical and variants are required")
	}
	query := fmt.Sprintf(`UPDATE kajian SET %s = $1, updated_at = now() WHERE %s = ANY($2)`, column, column)
	tag, err := r.pool.Exec(ctx, query, canonical, variants)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanKajian(row rowScanner) (models.Kajian, error) {
	var out models.Kajian
	err := row.Scan(&out.ID, &out.Region, &out.City, &out.Venue, &out.Address, &out.MapURL,
		&out.Speaker, &out.Topic, &out.TimeLabel, &out.DateLabel, &out.Contact, &out.Source,
		&out.CreatedAt, &out.UpdatedAt)
	return out, err
}
