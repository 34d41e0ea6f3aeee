package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/artisan-market/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

var artisanOrdering = map[string]string{
	"business_name": "a.business_name",
	"created_at":    "a.created_at",
}

var productOrdering = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"created_at": "p.created_at",
}

const artisanColumns = `a.id, a.user_id, a.business_name, a.description, a.location,
	(SELECT count(*) FROM products p WHERE p.artisan_id = a.id) AS product_count,
	a.created_at, a.updated_at`

func scanArtisan(row pgx.Row) (*Artisan, error) {
	var a Artisan
	err := row.Scan(&a.ID, &a.UserID, &a.BusinessName, &a.Description, &a.Location,
		&a.ProductCount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateArtisan inserts a profile for userID. The unique index on user_id
// enforces one profile per user.
func (r *Repo) CreateArtisan(ctx context.Context, userID string, in ArtisanInput) (*Artisan, error) {
	if err := ValidateArtisanInput(in); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO artisans(id, user_id, business_name, description, location)
		VALUES ($1, $2, $3, $4, $5)`,
		id, userID, in.BusinessName, in.Description, in.Location)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Wrap(apperr.KindConflict, ErrArtisanExists)
		}
		return nil, err
	}
	return r.GetArtisan(ctx, id)
}

func (r *Repo) GetArtisan(ctx context.Context, id string) (*Artisan, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+artisanColumns+` FROM artisans a WHERE a.id=$1`, id)
	a, err := scanArtisan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrArtisanNotFound)
	}
	return a, err
}

// ArtisanByUser returns the caller's own profile, if any.
func (r *Repo) ArtisanByUser(ctx context.Context, userID string) (*Artisan, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+artisanColumns+` FROM artisans a WHERE a.user_id=$1`, userID)
	a, err := scanArtisan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrArtisanNotFound)
	}
	return a, err
}

func (r *Repo) ListArtisans(ctx context.Context, p ListParams) ([]Artisan, int, error) {
	where := ""
	args := []any{}
	if p.Search != "" {
		where = ` WHERE a.business_name ILIKE $1 OR a.description ILIKE $1 OR a.location ILIKE $1`
		args = append(args, "%"+p.Search+"%")
	}

	var count int
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM artisans a`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	order := orderClause(p.Ordering, artisanOrdering, "a.created_at DESC")
	limit, offset := p.limitOffset()
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM artisans a%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		artisanColumns, where, order, len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Artisan, 0, limit)
	for rows.Next() {
		a, err := scanArtisan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	return out, count, rows.Err()
}

func (r *Repo) UpdateArtisan(ctx context.Context, id string, up ArtisanUpdate) (*Artisan, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if up.BusinessName != nil {
		if *up.BusinessName == "" {
			return nil, apperr.New(apperr.KindValidation, "business_name must not be empty").
				WithFields(map[string]any{"business_name": "must not be empty"})
		}
		add("business_name", *up.BusinessName)
	}
	if up.Description != nil {
		add("description", *up.Description)
	}
	if up.Location != nil {
		add("location", *up.Location)
	}

	ct, err := r.DB.Exec(ctx, `UPDATE artisans SET `+strings.Join(sets, ", ")+` WHERE id=$1`, args...)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrArtisanNotFound)
	}
	return r.GetArtisan(ctx, id)
}

func (r *Repo) DeleteArtisan(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM artisans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Wrap(apperr.KindNotFound, ErrArtisanNotFound)
	}
	return nil
}

const productColumns = `p.id, p.artisan_id, a.business_name, p.name, p.description,
	p.price, p.inventory, p.image_url, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ArtisanID, &p.ArtisanName, &p.Name, &p.Description,
		&p.Price, &p.Inventory, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) CreateProduct(ctx context.Context, artisanID string, in ProductInput) (*Product, error) {
	if err := ValidateProductInput(in); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, artisan_id, name, description, price, inventory, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, artisanID, in.Name, in.Description, in.Price, in.Inventory, in.ImageURL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperr.Wrap(apperr.KindNotFound, ErrArtisanNotFound)
		}
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p JOIN artisans a ON a.id = p.artisan_id
		WHERE p.id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrProductNotFound)
	}
	return p, err
}

func (r *Repo) ListProducts(ctx context.Context, f ProductFilter) ([]Product, int, error) {
	conds := []string{}
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ArtisanID != "" {
		add("p.artisan_id = $%d", f.ArtisanID)
	}
	if f.Price != nil {
		add("p.price = $%d", *f.Price)
	}
	if f.Search != "" {
		add("(p.name ILIKE $%[1]d OR p.description ILIKE $%[1]d)", "%"+f.Search+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var count int
	err := r.DB.QueryRow(ctx, `SELECT count(*) FROM products p`+where, args...).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	order := orderClause(f.Ordering, productOrdering, "p.name ASC")
	limit, offset := f.limitOffset()
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM products p JOIN artisans a ON a.id = p.artisan_id%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, order, len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, count, rows.Err()
}

func (r *Repo) UpdateProduct(ctx context.Context, id string, up ProductUpdate) (*Product, error) {
	if err := ValidateProductUpdate(up); err != nil {
		return nil, err
	}
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if up.Name != nil {
		add("name", *up.Name)
	}
	if up.Description != nil {
		add("description", *up.Description)
	}
	if up.Price != nil {
		add("price", *up.Price)
	}
	if up.Inventory != nil {
		add("inventory", *up.Inventory)
	}
	if up.ImageURL != nil {
		add("image_url", *up.ImageURL)
	}

	ct, err := r.DB.Exec(ctx, `UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id=$1`, args...)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrProductNotFound)
	}
	return r.GetProduct(ctx, id)
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Wrap(apperr.KindNotFound, ErrProductNotFound)
	}
	return nil
}
