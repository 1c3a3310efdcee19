// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"reflect"
	"strings"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/olegiv/orealty/internal/i18n"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/util"
)

// validator runs struct tag validation on request bodies and reports
// errors keyed by JSON field name.
type validator struct {
	validate *govalidator.Validate
}

func newValidator() *validator {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	must := func(tag string, fn govalidator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("registering " + tag + " validation: " + err.Error())
		}
	}
	must("slug", func(fl govalidator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || util.IsValidSlug(s)
	})
	must("listing_type", enumValidator(model.IsValidListingType))
	must("property_status", enumValidator(model.IsValidPropertyStatus))
	must("visibility", enumValidator(model.IsValidVisibility))
	must("currency", enumValidator(model.IsValidCurrency))
	must("content_status", enumValidator(model.IsValidContentStatus))
	must("role", enumValidator(model.IsValidRole))
	must("direction", func(fl govalidator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || s == model.DirectionLTR || s == model.DirectionRTL
	})

	return &validator{validate: v}
}

// enumValidator accepts empty strings so optional fields and pointers that
// were not sent pass.
func enumValidator(valid func(string) bool) govalidator.Func {
	return func(fl govalidator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || valid(s)
	}
}

// normalizer is implemented by request bodies that clean up their fields
// before validation.
type normalizer interface {
	normalize()
}

func normalize(dst any) {
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// Struct validates s and returns field errors in lang, or nil.
func (v *validator) Struct(s any, lang string) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs govalidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": i18n.T(lang, "validation.invalid")}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(fe, lang)
	}
	return out
}

// fieldPath drops the struct name from the namespace: "Req.images[0]" -> "images[0]".
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe govalidator.FieldError, lang string) string {
	switch fe.Tag() {
	case "required":
		return i18n.T(lang, "validation.required")
	case "email":
		return i18n.T(lang, "validation.email")
	case "max", "lte", "lt":
		return i18n.T(lang, "validation.max", fe.Param())
	case "min", "gte", "gt":
		return i18n.T(lang, "validation.min", fe.Param())
	case "len":
		return i18n.T(lang, "validation.len", fe.Param())
	case "numeric", "number":
		return i18n.T(lang, "validation.numeric")
	case "oneof":
		return i18n.T(lang, "validation.oneof", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "listing_type":
		return i18n.T(lang, "validation.oneof", strings.Join(model.ListingTypes, ", "))
	case "property_status":
		return i18n.T(lang, "validation.oneof", strings.Join(model.PropertyStatuses, ", "))
	case "visibility":
		return i18n.T(lang, "validation.oneof", strings.Join(model.Visibilities, ", "))
	case "content_status":
		return i18n.T(lang, "validation.oneof", model.ContentDraft+", "+model.ContentPublished)
	case "role":
		return i18n.T(lang, "validation.oneof", model.RoleAdmin+", "+model.RoleEditor)
	case "direction":
		return i18n.T(lang, "validation.oneof", model.DirectionLTR+", "+model.DirectionRTL)
	case "slug":
		return "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	}
	return i18n.T(lang, "validation.invalid")
}
