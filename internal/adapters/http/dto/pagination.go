package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	// ErrInvalidCursor is returned for a cursor that does not decode.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrStaleCursor is returned for a cursor whose position no longer holds
	// the item it was issued for, typically after an import.
	ErrStaleCursor = errors.New("cursor does not match the current collection")
)

// PageRequest is the query of a listing endpoint.
type PageRequest struct {
	// Cursor is the NextCursor of the previous page; empty for the first.
	Cursor string `form:"cursor" json:"cursor"`
	Limit  int    `form:"limit"  json:"limit"  validate:"omitempty,gte=1,lte=100"`
}

// Size returns Limit clamped to [1, MaxLimit], DefaultLimit when unset.
func (p PageRequest) Size() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// PaginatedResponse is one page of a listing.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// Cursor marks the last item of a page by position and identity. Both must
// still match for the cursor to be honoured.
type Cursor struct {
	Index int    `json:"i"`
	ID    string `json:"id"`
}

// EncodeCursor renders c as an opaque URL-safe token.
func EncodeCursor(c Cursor) string {
	raw, _ := json.Marshal(c)

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token from EncodeCursor.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.Index < 0 || c.ID == "" {
		return Cursor{}, ErrInvalidCursor
	}

	return c, nil
}

// Paginate returns the page of all that req asks for, converting each item
// with convert. idOf identifies items so a cursor can be checked against the
// collection it is applied to.
func Paginate[S, T any](all []S, req PageRequest, idOf func(S) string, convert func(S) T) (*PaginatedResponse[T], error) {
	start := 0

	if req.Cursor != "" {
		c, err := DecodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}

		if c.Index >= len(all) || idOf(all[c.Index]) != c.ID {
			return nil, ErrStaleCursor
		}

		start = c.Index + 1
	}

	end := min(start+req.Size(), len(all))

	page := &PaginatedResponse[T]{
		Items:   make([]T, 0, end-start),
		HasMore: end < len(all),
	}

	for _, item := range all[start:end] {
		page.Items = append(page.Items, convert(item))
	}

	if page.HasMore {
		page.NextCursor = EncodeCursor(Cursor{Index: end - 1, ID: idOf(all[end-1])})
	}

	return page, nil
}
