// Package memory provides an in-memory storage.Store used by tests.
// It mirrors the ordering and uniqueness rules of the Postgres store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hometracker/internal/models"
	"hometracker/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all records in process memory behind a single mutex.
type Store struct {
	mu sync.Mutex

	users      []models.User
	categories []models.Category
	expenses   []models.Expense
	toBuyItems []models.ToBuyItem
	settings   []models.Setting

	nextID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// --- Users ---

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = s.allocID()
	user.CreatedAt = time.Now()
	s.users = append(s.users, user)
	return user, nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User{}, s.users...), nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Categories ---

func (s *Store) CreateCategory(_ context.Context, category models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCategoryLocked(category)
}

func (s *Store) createCategoryLocked(category models.Category) (models.Category, error) {
	for _, c := range s.categories {
		if c.Name == category.Name {
			return models.Category{}, storage.ErrAlreadyExists
		}
	}
	category.ID = s.allocID()
	category.CreatedAt = time.Now()
	s.categories = append(s.categories, category)
	return category, nil
}

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category{}, s.categories...), nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Expenses ---

func (s *Store) CreateExpense(_ context.Context, expense models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense.ID = s.allocID()
	expense.CreatedAt = time.Now()
	s.expenses = append(s.expenses, expense)
	return expense, nil
}

func (s *Store) ListExpenses(_ context.Context, filter storage.ExpenseFilter) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := []models.Expense{}
	for _, e := range s.expenses {
		if filter.CategoryID != nil && e.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.PaidBy != nil && e.PaidBy != *filter.PaidBy {
			continue
		}
		if filter.PaymentMode != nil && e.PaymentMode != *filter.PaymentMode {
			continue
		}
		if filter.StartDate != nil && e.Date < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && e.Date > *filter.EndDate {
			continue
		}
		expenses = append(expenses, e)
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].Time > expenses[j].Time
	})
	return expenses, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- To-buy items ---

func (s *Store) CreateToBuyItem(_ context.Context, item models.ToBuyItem) (models.ToBuyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.allocID()
	item.CreatedAt = time.Now()
	s.toBuyItems = append(s.toBuyItems, item)
	return item, nil
}

func (s *Store) ListToBuyItems(_ context.Context, purchased *bool) ([]models.ToBuyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := []models.ToBuyItem{}
	for _, item := range s.toBuyItems {
		if purchased != nil && item.Purchased != *purchased {
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TargetDate < items[j].TargetDate
	})
	return items, nil
}

func (s *Store) MarkPurchased(_ context.Context, id int64, info storage.PurchaseInfo) (models.ToBuyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, item := range s.toBuyItems {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ToBuyItem{}, storage.ErrNotFound
	}

	item := &s.toBuyItems[idx]
	item.Purchased = true
	item.PurchasedBy = &info.PurchasedBy
	item.PurchaseAmount = &info.Amount
	item.PurchasePaymentMode = &info.PaymentMode
	item.PurchaseDate = &info.Date

	var categoryID int64
	found := false
	for _, c := range s.categories {
		if c.Name == storage.ToBuyCategoryName {
			categoryID = c.ID
			found = true
			break
		}
	}
	if !found {
		category, err := s.createCategoryLocked(models.Category{
			Name:  storage.ToBuyCategoryName,
			Color: storage.ToBuyCategoryColor,
		})
		if err != nil {
			return models.ToBuyItem{}, err
		}
		categoryID = category.ID
	}

	description := storage.PurchaseDescription(item.Name)
	s.expenses = append(s.expenses, models.Expense{
		ID:          s.allocID(),
		Amount:      info.Amount,
		CategoryID:  categoryID,
		PaymentMode: info.PaymentMode,
		PaidBy:      info.PurchasedBy,
		Date:        info.Date,
		Time:        storage.PurchaseExpenseTime,
		Description: &description,
		CreatedAt:   time.Now(),
	})

	return *item, nil
}

func (s *Store) DeleteToBuyItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.toBuyItems {
		if item.ID == id {
			s.toBuyItems = append(s.toBuyItems[:i], s.toBuyItems[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Settings ---

func (s *Store) GetSettings(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := map[string]string{}
	for _, row := range s.settings {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

func (s *Store) UpdateSettings(_ context.Context, currencySymbol, homeName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertSettingLocked("currency_symbol", currencySymbol)
	s.upsertSettingLocked("home_name", homeName)
	return nil
}

func (s *Store) upsertSettingLocked(key, value string) {
	for i, row := range s.settings {
		if row.Key == key {
			s.settings[i].Value = value
			s.settings[i].UpdatedAt = time.Now()
			return
		}
	}
	s.settings = append(s.settings, models.Setting{
		ID:        s.allocID(),
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}
