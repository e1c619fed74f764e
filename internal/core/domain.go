package core

import (
	"fmt"
	"strings"
)

const (
	Income  Multiplier = 1
	Expense Multiplier = -1
)

type (
	// Multiplier classifies a category as income (+1) or expense (-1).
	// Transactions store magnitudes only; direction always comes from here.
	Multiplier int

	Category struct {
		ID         int64      `json:"id"`
		Name       string     `json:"name"`
		Multiplier Multiplier `json:"multiplier"`
	}

	// Merchant belongs to exactly one category. CategoryID is zero until a
	// category has been assigned.
	Merchant struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		CategoryID int64  `json:"categoryID,omitempty"`
	}

	Transaction struct {
		ID         int64
		MerchantID int64
		Amount     Money
		Date       Date
	}

	// TransactionView is the denormalized read model: a transaction joined
	// with its merchant's and category's fields. Recomputed on every read,
	// never persisted.
	TransactionView struct {
		ID                 int64      `json:"id"`
		MerchantName       string     `json:"merchantName"`
		CategoryName       string     `json:"categoryName"`
		CategoryMultiplier Multiplier `json:"categoryMultiplier"`
		Amount             Money      `json:"amount"`
		Date               Date       `json:"date"`
	}

	// TransactionDraft is the write-side request shape. The category fields
	// are only consulted when the merchant does not exist yet; a zero
	// multiplier means "not supplied".
	TransactionDraft struct {
		MerchantName       string
		CategoryName       string
		CategoryMultiplier Multiplier
		Amount             Money
		Date               Date
	}
)

func (m Multiplier) Validate() error {
	if m != Income && m != Expense {
		return ErrInvalidMultiplier
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	return c.Multiplier.Validate()
}

func (d TransactionDraft) Validate() error {
	if strings.TrimSpace(d.MerchantName) == "" {
		return ErrEmptyMerchantName
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	return d.Date.Validate()
}

// DeletePolicy controls what happens to dependent rows when a category or
// merchant is deleted.
type DeletePolicy string

const (
	PolicyReject  DeletePolicy = "reject"
	PolicyCascade DeletePolicy = "cascade"
	PolicyOrphan  DeletePolicy = "orphan"
)

// ParseDeletePolicy interprets the policy request parameter. Empty input
// defaults to reject.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return PolicyReject, nil
	case PolicyReject:
		return PolicyReject, nil
	case PolicyCascade:
		return PolicyCascade, nil
	case PolicyOrphan:
		return PolicyOrphan, nil
	default:
		return "", fmt.Errorf("%w: unknown delete policy %q", ErrInvalidInput, s)
	}
}
