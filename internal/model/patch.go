package model

import (
	"fmt"
	"time"
)

// Field names a correctable item field.
type Field string

// The five fields the quick-fix engine may replace.
const (
	FieldDueDate           Field = "dueDate"
	FieldAmount            Field = "amount"
	FieldAutopay           Field = "autopay"
	FieldInstallmentNumber Field = "installmentNumber"
	FieldInstallmentTotal  Field = "installmentTotal"
)

// ParseField resolves a user-supplied field name.
func ParseField(name string) (Field, error) {
	switch Field(name) {
	case FieldDueDate, FieldAmount, FieldAutopay, FieldInstallmentNumber, FieldInstallmentTotal:
		return Field(name), nil
	}
	return "", fmt.Errorf("unknown field %q (fixable: dueDate, amount, autopay, installmentNumber, installmentTotal)", name)
}

// Patch is a whole-field replacement for one item. It is a sealed union:
// each fixable field has its own patch type carrying a typed value.
type Patch interface {
	Field() Field
	patch()
}

// DueDatePatch replaces an item's due date.
type DueDatePatch struct {
	Value time.Time
}

// AmountPatch replaces an item's amount.
type AmountPatch struct {
	Value float64
}

// AutopayPatch replaces an item's autopay flag.
type AutopayPatch struct {
	Value bool
}

// InstallmentNumberPatch replaces an item's installment number.
type InstallmentNumberPatch struct {
	Value int
}

// InstallmentTotalPatch replaces an item's installment total.
type InstallmentTotalPatch struct {
	Value int
}

// Field implements Patch.
func (DueDatePatch) Field() Field { return FieldDueDate }

// Field implements Patch.
func (AmountPatch) Field() Field { return FieldAmount }

// Field implements Patch.
func (AutopayPatch) Field() Field { return FieldAutopay }

// Field implements Patch.
func (InstallmentNumberPatch) Field() Field { return FieldInstallmentNumber }

// Field implements Patch.
func (InstallmentTotalPatch) Field() Field { return FieldInstallmentTotal }

func (DueDatePatch) patch()           {}
func (AmountPatch) patch()            {}
func (AutopayPatch) patch()           {}
func (InstallmentNumberPatch) patch() {}
func (InstallmentTotalPatch) patch()  {}

// FieldError is a field-scoped validation failure for a rejected patch.
type FieldError struct {
	FieldName Field
	Reason    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.FieldName, e.Reason)
}
