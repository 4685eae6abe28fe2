package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is embedded by the records the portal stores itself.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Page is the paginated list envelope returned by the backend.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Ref is a foreign key the backend renders either as a bare id or as a nested
// object carrying at least id and name.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] != '{' {
		var raw json.Number
		if err := json.Unmarshal(data, &raw); err != nil {
			var s string
			if err := json.Unmarshal(data, &s); err != nil {
				return err
			}
			raw = json.Number(s)
		}
		id, err := strconv.ParseInt(raw.String(), 10, 64)
		if err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

func (r Ref) IsZero() bool {
	return r.ID == 0
}

// UnmarshalJSON also accepts a bare array, which unpaginated endpoints return.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var results []T
		if err := json.Unmarshal(data, &results); err != nil {
			return err
		}
		*p = Page[T]{Count: len(results), Results: results}
		return nil
	}

	type plain Page[T]
	var pp plain
	if err := json.Unmarshal(data, &pp); err != nil {
		return err
	}
	*p = Page[T](pp)
	return nil
}

func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

func (p Page[T]) HasPrevious() bool {
	return p.Previous != nil && *p.Previous != ""
}
