package entity

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Storefront is a public mini-site projecting the catalog to clients.
type Storefront struct {
	ID           string     `gorm:"primaryKey;size:32" json:"id"`
	Name         string     `gorm:"size:200;not null" json:"name"`
	Slug         string     `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Tagline      string     `gorm:"size:500" json:"tagline"`
	About        string     `gorm:"type:text" json:"about"`
	ThemePrimary string     `gorm:"size:20" json:"theme_primary"`
	ThemeAccent  string     `gorm:"size:20" json:"theme_accent"`
	LogoURL      string     `gorm:"size:500" json:"logo_url"`
	ContactEmail string     `gorm:"size:200" json:"contact_email"`
	ContactPhone string     `gorm:"size:50" json:"contact_phone"`
	Published    bool       `gorm:"default:false;index" json:"published"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedBy    string     `gorm:"size:32" json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Products []StoreProduct `gorm:"foreignKey:StoreID" json:"products,omitempty"`
}

func (Storefront) TableName() string {
	return "store_storefronts"
}

// StoreProduct projects an inventory material onto a storefront with
// presentation overrides. Price falls back to the material price when
// no override is set.
type StoreProduct struct {
	ID            string   `gorm:"primaryKey;size:32" json:"id"`
	StoreID       string   `gorm:"size:32;index;not null" json:"store_id"`
	MaterialID    string   `gorm:"size:32;index;not null" json:"material_id"`
	DisplayName   string   `gorm:"size:200" json:"display_name"`
	Description   string   `gorm:"type:text" json:"description"`
	PriceOverride *float64 `json:"price_override,omitempty"`
	ImageURL      string   `gorm:"size:500" json:"image_url"`
	Visible       bool     `gorm:"default:true" json:"visible"`
	SortOrder     int      `gorm:"default:0" json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StoreProduct) TableName() string {
	return "store_products"
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify folds a store name to a URL slug: diacritics stripped,
// lowercased, non-alphanumerics collapsed to single hyphens.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	slug := slugCleaner.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
