package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Well-known category names the heuristic matchers resolve against.
const (
	CategoryNameFinancial     = "financial"
	CategoryNameGovernment    = "government"
	CategoryNameInsurance     = "insurance"
	CategoryNameSalary        = "salary"
	CategoryNameTransport     = "transport"
	CategoryNameUncategorized = "uncategorized"
)

const DefaultCategoryColor = "#6C5CE7"

// Category is a spending/income category used for transaction matching.
// Categories form a two-level tree by convention: main categories have no
// parent, subcategories reference their parent by id only (no loaded
// association, so a deleted parent can never dangle a pointer).
type Category struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name             string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	DisplayName      string     `gorm:"type:varchar(200)" json:"display_name"`
	ColorHex         string     `gorm:"type:varchar(7);default:'#6C5CE7'" json:"color_hex"`
	Icon             string     `gorm:"type:varchar(10)" json:"icon,omitempty"`
	ParentCategoryID *uuid.UUID `gorm:"type:uuid;index" json:"parent_category_id,omitempty"`

	// Keywords is a single delimited string ("REWE,EDEKA,Supermarkt"),
	// split on comma, semicolon or whitespace at match time.
	Keywords string `gorm:"type:text" json:"keywords,omitempty"`

	// IsExpense marks this as an expense (true) or income (false) category.
	// Intentionally independent of the parent's flag and of any
	// transaction's own sign/direction. No column default: gorm skips
	// zero-valued fields on INSERT when one is set, which would flip
	// false to the default.
	IsExpense bool `gorm:"not null" json:"is_expense"`

	// IsActive is the soft-delete flag. Categories are never hard-deleted
	// so historical transactions keep a valid reference.
	IsActive bool `gorm:"not null;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.ColorHex == "" {
		c.ColorHex = DefaultCategoryColor
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return nil
}

// TableName returns the table name for Category
func (c *Category) TableName() string {
	return "categories"
}

// IsMainCategory returns true when the category has no parent.
func (c *Category) IsMainCategory() bool {
	return c.ParentCategoryID == nil
}

// FullDisplayName returns the icon-prefixed display name for UIs.
func (c *Category) FullDisplayName() string {
	if c.Icon != "" {
		return c.Icon + " " + c.DisplayName
	}
	return c.DisplayName
}

// KeywordList splits the delimited keyword string on comma, semicolon and
// whitespace, dropping empty entries.
func (c *Category) KeywordList() []string {
	if strings.TrimSpace(c.Keywords) == "" {
		return nil
	}
	fields := strings.FieldsFunc(strings.ToLower(c.Keywords), func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			keywords = append(keywords, f)
		}
	}
	return keywords
}

// MatchesKeywords reports whether any of the category's keywords occurs in
// the given normalized search text. Keywords shorter than three characters
// are ignored to keep tokens like "an" or "ab" from matching everything.
func (c *Category) MatchesKeywords(normalizedText string) bool {
	for _, keyword := range c.KeywordList() {
		keyword = strings.TrimSpace(keyword)
		if utf8.RuneCountInString(keyword) > 2 && strings.Contains(normalizedText, keyword) {
			return true
		}
	}
	return false
}
