package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryStarter Category = "STARTER"
	CategoryMain    Category = "MAIN"
	CategoryDrinks  Category = "DRINKS"
	CategoryDessert Category = "DESSERT"
)

func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryStarter:
		return CategoryStarter, nil
	case CategoryMain:
		return CategoryMain, nil
	case CategoryDrinks:
		return CategoryDrinks, nil
	case CategoryDessert:
		return CategoryDessert, nil
	}
	return "", fmt.Errorf("unknown menu category %q", s)
}

type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImagePath   string          `json:"image_path,omitempty"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

var ErrNonPositivePrice = errors.New("price must be positive")

func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := ParseCategory(string(m.Category)); err != nil {
		return err
	}
	if !m.Price.IsPositive() {
		return ErrNonPositivePrice
	}
	return nil
}
