package store

import (
	"database/sql"
	"fmt"

	"github.com/eco-abhi/hearth/internal/model"
)

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// --- Store methods ---

const storeCols = `id, name, color, sort_order, created_at`

func scanStore(scanner interface{ Scan(...any) error }) (*model.ShoppingStore, error) {
	var st model.ShoppingStore
	err := scanner.Scan(&st.ID, &st.Name, &st.Color, &st.SortOrder, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *ShoppingStore) CreateStore(name, color string) (*model.ShoppingStore, error) {
	var maxOrder int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(sort_order), -1) FROM stores`).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO stores (name, color, sort_order) VALUES (?, ?, ?)`,
		name, color, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert store: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetStoreByID(id)
}

func (s *ShoppingStore) GetStoreByID(id int64) (*model.ShoppingStore, error) {
	row := s.db.QueryRow(`SELECT `+storeCols+` FROM stores WHERE id = ?`, id)
	st, err := scanStore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return st, nil
}

func (s *ShoppingStore) ListStores() ([]model.ShoppingStore, error) {
	rows, err := s.db.Query(`SELECT ` + storeCols + ` FROM stores ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []model.ShoppingStore
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, *st)
	}
	return stores, rows.Err()
}

func (s *ShoppingStore) UpdateStore(id int64, name, color string) (*model.ShoppingStore, error) {
	_, err := s.db.Exec(`UPDATE stores SET name = ?, color = ? WHERE id = ?`, name, color, id)
	if err != nil {
		return nil, fmt.Errorf("update store: %w", err)
	}
	return s.GetStoreByID(id)
}

// DeleteStore removes a store and, via cascade, its items.
func (s *ShoppingStore) DeleteStore(id int64) error {
	_, err := s.db.Exec(`DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	return nil
}

// --- Item methods ---

const shoppingItemCols = `id, store_id, name, quantity, checked, sort_order, created_at`

func scanShoppingItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var checked int
	err := scanner.Scan(&item.ID, &item.StoreID, &item.Name, &item.Quantity, &checked, &item.SortOrder, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Checked = checked != 0
	return &item, nil
}

func (s *ShoppingStore) GetItemByID(id int64) (*model.ShoppingItem, error) {
	row := s.db.QueryRow(`SELECT `+shoppingItemCols+` FROM shopping_items WHERE id = ?`, id)
	item, err := scanShoppingItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ShoppingStore) CreateItem(storeID int64, name, quantity string) (*model.ShoppingItem, error) {
	var maxOrder int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(sort_order), -1) FROM shopping_items WHERE store_id = ?`, storeID).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO shopping_items (store_id, name, quantity, sort_order) VALUES (?, ?, ?, ?)`,
		storeID, name, quantity, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ShoppingStore) ListItems(storeID int64) ([]model.ShoppingItem, error) {
	rows, err := s.db.Query(
		`SELECT `+shoppingItemCols+` FROM shopping_items WHERE store_id = ? ORDER BY checked ASC, sort_order ASC, created_at ASC`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) UpdateItem(id int64, name, quantity string) (*model.ShoppingItem, error) {
	_, err := s.db.Exec(`UPDATE shopping_items SET name = ?, quantity = ? WHERE id = ?`, name, quantity, id)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ShoppingStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *ShoppingStore) ToggleChecked(id int64) (*model.ShoppingItem, error) {
	item, err := s.GetItemByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	checked := 1
	if item.Checked {
		checked = 0
	}
	_, err = s.db.Exec(`UPDATE shopping_items SET checked = ? WHERE id = ?`, checked, id)
	if err != nil {
		return nil, fmt.Errorf("toggle checked: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ShoppingStore) ClearChecked(storeID int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_items WHERE store_id = ? AND checked = 1`, storeID)
	if err != nil {
		return 0, fmt.Errorf("clear checked: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// MoveItem moves an item to another store by deleting it and recreating it
// at the destination, in one transaction. The item's identity does not
// survive the move: the returned item has a fresh id, an unchecked state,
// and lands at the end of the destination list.
func (s *ShoppingStore) MoveItem(itemID, destStoreID int64) (*model.ShoppingItem, error) {
	item, err := s.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM shopping_items WHERE id = ?`, itemID); err != nil {
		return nil, fmt.Errorf("delete source item: %w", err)
	}

	var maxOrder int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(sort_order), -1) FROM shopping_items WHERE store_id = ?`, destStoreID).Scan(&maxOrder); err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO shopping_items (store_id, name, quantity, sort_order) VALUES (?, ?, ?, ?)`,
		destStoreID, item.Name, item.Quantity, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert destination item: %w", err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetItemByID(newID)
}
