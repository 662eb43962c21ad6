package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hometracker/internal/models"
	"hometracker/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for the household tables.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects, applies migrations, and seeds default rows.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := s.seed(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			color TEXT NOT NULL DEFAULT '#3498db',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			amount DOUBLE PRECISION NOT NULL,
			category_id BIGINT NOT NULL REFERENCES categories(id),
			payment_mode TEXT NOT NULL,
			paid_by BIGINT NOT NULL REFERENCES users(id),
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS to_buy_items (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			quantity TEXT,
			target_date TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'medium',
			notes TEXT,
			created_by BIGINT NOT NULL REFERENCES users(id),
			purchased BOOLEAN NOT NULL DEFAULT FALSE,
			purchased_by BIGINT REFERENCES users(id),
			purchase_amount DOUBLE PRECISION,
			purchase_payment_mode TEXT,
			purchase_date TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			id BIGSERIAL PRIMARY KEY,
			key TEXT UNIQUE NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS expenses_date_time_idx ON expenses (date DESC, time DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// seed inserts the default users, categories, and settings, each only
// when the respective table is empty.
func (s *Store) seed(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if count == 0 {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO users (username, password, full_name, role) VALUES
			('admin', 'admin', 'Home Admin', 'admin'),
			('user1', 'user1', 'User One', 'user'),
			('user2', 'user2', 'User Two', 'user');`)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if count == 0 {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO categories (name, color) VALUES
			('Groceries', '#22c55e'),
			('Rent', '#3b82f6'),
			('Utilities', '#f97316'),
			('Transportation', '#8b5cf6'),
			('Entertainment', '#ec4899');`)
		if err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if count == 0 {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO settings (key, value) VALUES
			('currency_symbol', '₹'),
			('home_name', 'Shared Home');`)
		if err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}

	return nil
}

// --- Users ---

const userColumns = `id, username, password, full_name, role, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.Username, user.Password, user.FullName, user.Role)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// ListUsers returns all users.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindUserByUsername fetches a user by exact username match.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// DeleteUser removes a user row.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "users", id)
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.FullName, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// --- Categories ---

// CreateCategory inserts a new category row.
func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, color)
		VALUES ($1, $2)
		RETURNING id, name, color, created_at`,
		category.Name, category.Color)
	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Category{}, storage.ErrAlreadyExists
		}
		return models.Category{}, err
	}
	return created, nil
}

// ListCategories returns all categories.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, color, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category row.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "categories", id)
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, storage.ErrNotFound
		}
		return models.Category{}, err
	}
	return c, nil
}

// --- Expenses ---

const expenseColumns = `id, amount, category_id, payment_mode, paid_by, date, time, description, created_at`

// CreateExpense inserts a new expense row.
func (s *Store) CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (amount, category_id, payment_mode, paid_by, date, time, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+expenseColumns,
		expense.Amount, expense.CategoryID, expense.PaymentMode, expense.PaidBy,
		expense.Date, expense.Time, expense.Description)
	return scanExpense(row)
}

// ListExpenses returns expenses matching the filter, ordered by date then
// time descending. Date and time are fixed-width strings, so string
// comparison in SQL gives chronological order.
func (s *Store) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.PaidBy != nil {
		add("paid_by = $%d", *filter.PaidBy)
	}
	if filter.PaymentMode != nil {
		add("payment_mode = $%d", *filter.PaymentMode)
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date DESC, time DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes an expense row.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "expenses", id)
}

func scanExpense(row pgx.Row) (models.Expense, error) {
	var e models.Expense
	if err := row.Scan(&e.ID, &e.Amount, &e.CategoryID, &e.PaymentMode, &e.PaidBy,
		&e.Date, &e.Time, &e.Description, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Expense{}, storage.ErrNotFound
		}
		return models.Expense{}, err
	}
	return e, nil
}

// --- To-buy items ---

const toBuyColumns = `id, name, quantity, target_date, priority, notes, created_by,
	purchased, purchased_by, purchase_amount, purchase_payment_mode, purchase_date, created_at`

// CreateToBuyItem inserts a new to-buy row.
func (s *Store) CreateToBuyItem(ctx context.Context, item models.ToBuyItem) (models.ToBuyItem, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO to_buy_items (name, quantity, target_date, priority, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+toBuyColumns,
		item.Name, item.Quantity, item.TargetDate, item.Priority, item.Notes, item.CreatedBy)
	return scanToBuyItem(row)
}

// ListToBuyItems returns items ordered by target date ascending, optionally
// filtered by the purchased flag.
func (s *Store) ListToBuyItems(ctx context.Context, purchased *bool) ([]models.ToBuyItem, error) {
	query := `SELECT ` + toBuyColumns + ` FROM to_buy_items`
	var args []any
	if purchased != nil {
		query += ` WHERE purchased = $1`
		args = append(args, *purchased)
	}
	query += ` ORDER BY target_date`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list to-buy items: %w", err)
	}
	defer rows.Close()

	items := []models.ToBuyItem{}
	for rows.Next() {
		item, err := scanToBuyItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkPurchased flags the item as purchased and records the matching
// expense in the same transaction. The "To-Buy Items" category is created
// on first use.
func (s *Store) MarkPurchased(ctx context.Context, id int64, info storage.PurchaseInfo) (models.ToBuyItem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.ToBuyItem{}, fmt.Errorf("begin purchase tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE to_buy_items
		SET purchased = TRUE,
			purchased_by = $2,
			purchase_amount = $3,
			purchase_payment_mode = $4,
			purchase_date = $5
		WHERE id = $1
		RETURNING `+toBuyColumns,
		id, info.PurchasedBy, info.Amount, info.PaymentMode, info.Date)
	item, err := scanToBuyItem(row)
	if err != nil {
		return models.ToBuyItem{}, err
	}

	var categoryID int64
	err = tx.QueryRow(ctx, `SELECT id FROM categories WHERE name = $1`, storage.ToBuyCategoryName).Scan(&categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `INSERT INTO categories (name, color) VALUES ($1, $2) RETURNING id`,
			storage.ToBuyCategoryName, storage.ToBuyCategoryColor).Scan(&categoryID)
	}
	if err != nil {
		return models.ToBuyItem{}, fmt.Errorf("resolve to-buy category: %w", err)
	}

	description := storage.PurchaseDescription(item.Name)
	_, err = tx.Exec(ctx, `
		INSERT INTO expenses (amount, category_id, payment_mode, paid_by, date, time, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		info.Amount, categoryID, info.PaymentMode, info.PurchasedBy,
		info.Date, storage.PurchaseExpenseTime, description)
	if err != nil {
		return models.ToBuyItem{}, fmt.Errorf("insert purchase expense: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.ToBuyItem{}, fmt.Errorf("commit purchase tx: %w", err)
	}
	return item, nil
}

// DeleteToBuyItem removes a to-buy row. The expense generated by a
// purchase is left in place.
func (s *Store) DeleteToBuyItem(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "to_buy_items", id)
}

func scanToBuyItem(row pgx.Row) (models.ToBuyItem, error) {
	var item models.ToBuyItem
	if err := row.Scan(&item.ID, &item.Name, &item.Quantity, &item.TargetDate, &item.Priority,
		&item.Notes, &item.CreatedBy, &item.Purchased, &item.PurchasedBy, &item.PurchaseAmount,
		&item.PurchasePaymentMode, &item.PurchaseDate, &item.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ToBuyItem{}, storage.ErrNotFound
		}
		return models.ToBuyItem{}, err
	}
	return item, nil
}

// --- Settings ---

// GetSettings returns all settings rows as a flat key/value map.
func (s *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// UpdateSettings upserts the two well-known settings keys.
func (s *Store) UpdateSettings(ctx context.Context, currencySymbol, homeName string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES
		('currency_symbol', $1),
		('home_name', $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		currencySymbol, homeName)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// --- helpers ---

func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
