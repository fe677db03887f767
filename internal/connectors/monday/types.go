package monday

import "encoding/json"

// Account is the account a token belongs to.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the token owner.
type User struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Account *Account `json:"account,omitempty"`
}

// Column is a board column.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Group is a board group.
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Board is a monday board.
type Board struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	State       string   `json:"state,omitempty"`
	Kind        string   `json:"board_kind,omitempty"`
	ItemsCount  int      `json:"items_count,omitempty"`
	Columns     []Column `json:"columns,omitempty"`
	Groups      []Group  `json:"groups,omitempty"`
}

// ColumnValue is an item's value in one column.
type ColumnValue struct {
	ID    string          `json:"id"`
	Type  string          `json:"type,omitempty"`
	Text  string          `json:"text"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Item is a board row.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Group        *Group        `json:"group,omitempty"`
	ColumnValues []ColumnValue `json:"column_values,omitempty"`
}

// Update is a comment posted on an item.
type Update struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ItemRequest creates an item.
type ItemRequest struct {
	BoardID string
	GroupID string
	Name    string
	// Columns maps column IDs to values; simple strings work for
	// text, status and numbers columns.
	Columns map[string]any
}
