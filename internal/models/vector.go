package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

// Vector is a fixed-length embedding stored as a JSON text column so it
// round-trips through any gorm dialect without a vector extension.
type Vector []float32

// Value implements driver.Valuer. A nil vector stores as NULL.
func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal([]float32(v))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (v *Vector) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("cannot scan %T into Vector", src)
	}
	var out []float32
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("malformed embedding column: %w", err)
	}
	*v = out
	return nil
}

// CosineDistance returns 1 - cosine similarity between two vectors; smaller
// means more similar. Mismatched dimensions or a zero-norm vector yield the
// maximum distance so degenerate rows never rank as neighbors.
func (v Vector) CosineDistance(other Vector) float64 {
	if len(v) == 0 || len(v) != len(other) {
		return 2
	}
	var dot, normA, normB float64
	for i := range v {
		a, b := float64(v[i]), float64(other[i])
		dot += a * b
		normA += a * a
		normB += b * b
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
