package http

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "required" accepts whitespace-only strings, so rejecting blanks
	// needs its own rule.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

type createUserRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type updateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,notblank,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type createTransactionRequest struct {
	Type        string `json:"type" validate:"required,oneof=income expense"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,notblank,max=200"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type updateTransactionRequest struct {
	Type        *string `json:"type" validate:"omitempty,oneof=income expense"`
	Amount      *string `json:"amount"`
	Description *string `json:"description" validate:"omitempty,notblank,max=200"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// decodeRequest decodes the JSON body into dst and runs struct validation.
// A malformed body yields a decode error, a well-formed body with bad
// field values yields a validation error.
func decodeRequest(body io.Reader, dst any) (decodeErr, validationErr error) {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err), nil
	}
	if err := validate.Struct(dst); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return nil, nil
}

func (r createUserRequest) toUser() core.User {
	return core.User{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
	}
}

func (r updateUserRequest) toPatch() store.UserPatch {
	patch := store.UserPatch{Email: r.Email}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		patch.Name = &trimmed
	}
	return patch
}

func (r createTransactionRequest) toTransaction(userID string) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(r.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, core.ErrInvalidAmount)
	}

	date := core.Today()
	if r.Date != "" {
		date, err = core.ParseDate(r.Date)
		if err != nil {
			return core.Transaction{}, err
		}
	}

	return core.Transaction{
		UserID:      userID,
		Type:        core.TransactionType(r.Type),
		Amount:      core.Money{Cents: cents},
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
		Date:        date,
	}, nil
}

func (r updateTransactionRequest) toPatch() (store.TransactionPatch, error) {
	var patch store.TransactionPatch

	if r.Type != nil {
		t := core.TransactionType(*r.Type)
		patch.Type = &t
	}
	if r.Amount != nil {
		cents, err := core.ParseDecimalToCents(*r.Amount)
		if err != nil {
			return store.TransactionPatch{}, fmt.Errorf("invalid amount %q: %w", *r.Amount, core.ErrInvalidAmount)
		}
		patch.Amount = &core.Money{Cents: cents}
	}
	if r.Description != nil {
		trimmed := strings.TrimSpace(*r.Description)
		patch.Description = &trimmed
	}
	if r.Category != nil {
		trimmed := strings.TrimSpace(*r.Category)
		patch.Category = &trimmed
	}
	if r.Date != nil {
		date, err := core.ParseDate(*r.Date)
		if err != nil {
			return store.TransactionPatch{}, err
		}
		patch.Date = &date
	}

	return patch, nil
}
