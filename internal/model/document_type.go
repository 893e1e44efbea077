package model

import (
	"strings"
	"time"
)

// DocumentType is a category a document can be classified into.
// Name is unique across types (validated at the service layer). TypeName is
// derived from Name and used as the stable label matched against classifier
// predictions.
type DocumentType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TypeName    string    `json:"type_name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeriveTypeName normalizes a display name into a type name: lowercased with
// all spaces stripped. "Purchase Order" becomes "purchaseorder".
func DeriveTypeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}
