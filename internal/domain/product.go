package domain

import (
	"fmt"
	"strings"
	"time"
)

// Product is a catalog item that can be ordered
type Product struct {
	ID          int64
	Code        string
	Name        string
	Price       int64
	Description string
	PhotoFileID string
	CreatedAt   time.Time
}

// Descriptions returns the description lines in their stored order
func (p Product) Descriptions() []string {
	if p.Description == "" {
		return nil
	}
	return strings.Split(p.Description, "\n")
}

// ProductCode formats the public product code for a sequence number
func ProductCode(seq int64) string {
	return fmt.Sprintf("PK-%03d", seq)
}
