package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Category is one of a fixed set of spending categories.
type Category string

const (
	FoodAndDining    Category = "Food & Dining"
	Transportation   Category = "Transportation"
	Shopping         Category = "Shopping"
	Entertainment    Category = "Entertainment"
	BillsAndUtils    Category = "Bills & Utilities"
	Healthcare       Category = "Healthcare"
	HealthAndFitness Category = "Health & Fitness"
	Travel           Category = "Travel"
	Education        Category = "Education"
	HomeAndGarden    Category = "Home & Garden"
	PersonalCare     Category = "Personal Care"
	GiftsAndDonation Category = "Gifts & Donations"
	Business         Category = "Business"
	Other            Category = "Other"
)

var ErrInvalidCategory = errors.New("invalid category")

var categories = []Category{
	FoodAndDining,
	Transportation,
	Shopping,
	Entertainment,
	BillsAndUtils,
	Healthcare,
	HealthAndFitness,
	Travel,
	Education,
	HomeAndGarden,
	PersonalCare,
	GiftsAndDonation,
	Business,
	Other,
}

var categoryColors = map[Category]string{
	FoodAndDining:  "#ef4444",
	Transportation: "#3b82f6",
	Shopping:       "#8b5cf6",
	Entertainment:  "#f59e0b",
	BillsAndUtils:  "#10b981",
	Healthcare:     "#ec4899",
	Travel:         "#06b6d4",
	Education:      "#84cc16",
	Other:          "#6b7280",
}

// Categories returns every valid category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory returns the category whose name matches s exactly
// (surrounding whitespace ignored).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Category) Validate() error {
	for _, known := range categories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
}

func (c Category) String() string {
	return string(c)
}

// Color returns the hex display color, falling back to the "Other" color.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[Other]
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, string(b))
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
