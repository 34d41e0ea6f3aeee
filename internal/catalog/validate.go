package catalog

import (
	"errors"

	"github.com/ariefcatur/artisan-market/internal/apperr"
	"github.com/ariefcatur/artisan-market/internal/money"
)

var (
	ErrArtisanExists   = errors.New("user already has an artisan profile")
	ErrArtisanNotFound = errors.New("artisan not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNotOwner        = errors.New("not the owner of this resource")
)

func ValidateArtisanInput(in ArtisanInput) error {
	if in.BusinessName == "" {
		return apperr.New(apperr.KindValidation, "business_name is required").
			WithFields(map[string]any{"business_name": "required"})
	}
	return nil
}

func ValidateProductInput(in ProductInput) error {
	fields := map[string]any{}
	if in.Name == "" {
		fields["name"] = "required"
	}
	if err := money.ValidateAmount(in.Price); err != nil {
		fields["price"] = err.Error()
	}
	if in.Inventory < 0 {
		fields["inventory"] = "inventory cannot be negative"
	}
	if len(fields) > 0 {
		return apperr.New(apperr.KindValidation, "invalid product").WithFields(fields)
	}
	return nil
}

func ValidateProductUpdate(up ProductUpdate) error {
	fields := map[string]any{}
	if up.Name != nil && *up.Name == "" {
		fields["name"] = "must not be empty"
	}
	if up.Price != nil {
		if err := money.ValidateAmount(*up.Price); err != nil {
			fields["price"] = err.Error()
		}
	}
	if up.Inventory != nil && *up.Inventory < 0 {
		fields["inventory"] = "inventory cannot be negative"
	}
	if len(fields) > 0 {
		return apperr.New(apperr.KindValidation, "invalid product").WithFields(fields)
	}
	return nil
}
