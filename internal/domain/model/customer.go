package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the aggregate root owning all loans of one borrower. It is
// immutable; mutations return a new copy.
type Customer struct {
	id            int64
	firstName     string
	lastName      string
	age           int
	phoneNumber   string
	monthlySalary decimal.Decimal
	approvedLimit decimal.Decimal
	currentDebt   decimal.Decimal
	createdAt     time.Time
	updatedAt     time.Time
}

// NewCustomer creates a customer at registration time. The approved limit is
// derived from income by the limit policy exactly once here; it stays fixed
// afterwards unless explicitly recalculated. The identifier is assigned on
// first save.
func NewCustomer(
	firstName, lastName string,
	age int,
	phoneNumber string,
	monthlySalary, approvedLimit decimal.Decimal,
	now time.Time,
) (Customer, error) {
	if firstName == "" {
		return Customer{}, errors.New("first name is required")
	}
	if lastName == "" {
		return Customer{}, errors.New("last name is required")
	}
	if phoneNumber == "" {
		return Customer{}, errors.New("phone number is required")
	}
	if monthlySalary.LessThanOrEqual(decimal.Zero) {
		return Customer{}, errors.New("monthly salary must be positive")
	}
	if approvedLimit.LessThan(decimal.Zero) {
		return Customer{}, errors.New("approved limit must not be negative")
	}

	return Customer{
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlySalary: monthlySalary,
		approvedLimit: approvedLimit,
		currentDebt:   decimal.Zero,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructCustomer rebuilds a Customer aggregate from persistence.
func ReconstructCustomer(
	id int64,
	firstName, lastName string,
	age int,
	phoneNumber string,
	monthlySalary, approvedLimit, currentDebt decimal.Decimal,
	createdAt, updatedAt time.Time,
) Customer {
	return Customer{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlySalary: monthlySalary,
		approvedLimit: approvedLimit,
		currentDebt:   currentDebt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// WithID returns a copy carrying the identifier assigned by the store.
func (c Customer) WithID(id int64) Customer {
	next := c
	next.id = id
	return next
}

// AddDebt increases the customer's current debt after a loan is sanctioned.
func (c Customer) AddDebt(amount decimal.Decimal, now time.Time) (Customer, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return c, errors.New("debt increase must be positive")
	}
	next := c
	next.currentDebt = c.currentDebt.Add(amount)
	next.updatedAt = now
	return next, nil
}

// ReduceDebt decreases the customer's current debt when a loan closes.
func (c Customer) ReduceDebt(amount decimal.Decimal, now time.Time) (Customer, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return c, errors.New("debt decrease must be positive")
	}
	next := c
	next.currentDebt = c.currentDebt.Sub(amount)
	if next.currentDebt.LessThan(decimal.Zero) {
		next.currentDebt = decimal.Zero
	}
	next.updatedAt = now
	return next, nil
}

// HalfSalary returns the affordability ceiling for total monthly EMI
// obligations: half of the monthly salary.
func (c Customer) HalfSalary() decimal.Decimal {
	return c.monthlySalary.Mul(decimal.NewFromFloat(0.5))
}

func (c Customer) ID() int64                      { return c.id }
func (c Customer) FirstName() string              { return c.firstName }
func (c Customer) LastName() string               { return c.lastName }
func (c Customer) Age() int                       { return c.age }
func (c Customer) PhoneNumber() string            { return c.phoneNumber }
func (c Customer) MonthlySalary() decimal.Decimal { return c.monthlySalary }
func (c Customer) ApprovedLimit() decimal.Decimal { return c.approvedLimit }
func (c Customer) CurrentDebt() decimal.Decimal   { return c.currentDebt }
func (c Customer) CreatedAt() time.Time           { return c.createdAt }
func (c Customer) UpdatedAt() time.Time           { return c.updatedAt }
