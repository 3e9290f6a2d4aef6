package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the `{code, message, data}` wrapper common to all API responses.
// List endpoints may add a top-level pagination block.
type Envelope[T any] struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a list.
type Pagination struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// List is the `data` of a list endpoint. The API sends either a flat array or
// an object `{items, total?, pagination?}`; both decode into List.
type List[T any] struct {
	Items      []T
	Total      *int
	Pagination *Pagination
}

type listObject[T any] struct {
	Items      []T         `json:"items"`
	Total      *int        `json:"total,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// UnmarshalJSON accepts both list shapes. `null` leaves the list empty.
func (l *List[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = List[T]{}
		return nil
	}
	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = List[T]{Items: items}
		return nil
	case '{':
		var obj listObject[T]
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*l = List[T]{Items: obj.Items, Total: obj.Total, Pagination: obj.Pagination}
		return nil
	default:
		return fmt.Errorf("list: unexpected JSON %q", string(trimmed[:1]))
	}
}

// MarshalJSON always emits the object form so console clients see one shape.
func (l List[T]) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(listObject[T]{Items: items, Total: l.Total, Pagination: l.Pagination})
}

// Count reports the total number of records the server knows about: the
// explicit total, then the pagination total, then the number of items held.
func (l List[T]) Count() int {
	switch {
	case l.Total != nil:
		return *l.Total
	case l.Pagination != nil:
		return l.Pagination.Total
	default:
		return len(l.Items)
	}
}
