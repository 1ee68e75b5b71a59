// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package helper provides helper functions
package helper

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en_US"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"
	"github.com/undernetirc/keyvault/internal/auth/oath"
)

// Validator is a wrapper around the validator package
type Validator struct {
	validator *validator.Validate
	transEN   ut.Translator
}

// NewValidator returns a new Validator
func NewValidator() *Validator {
	english := en_US.New()
	uni := ut.New(english, english)
	transEN, found := uni.GetTranslator("en_US")
	if !found {
		log.Fatal("translator not found")
	}
	validate := validator.New()

	// Override the default tag name by using the json tag
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register default translations
	if err := enTranslation.RegisterDefaultTranslations(validate, transEN); err != nil {
		log.Fatal(err)
	}

	// Register custom validators
	registerCustomValidators(validate, transEN)

	return &Validator{
		validator: validate,
		transEN:   transEN,
	}
}

// Validate validates a struct based on the tags
func (v *Validator) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Handle non-ValidationErrors (like InvalidValidationError)
		return fmt.Errorf("validation error: %s", err.Error())
	}
	var errs []string
	for _, e := range validationErrors {
		errs = append(errs, e.Translate(v.transEN))
	}
	return fmt.Errorf("%s", strings.Join(errs, ", "))
}

// registerCustomValidators registers custom validation rules
func registerCustomValidators(validate *validator.Validate, trans ut.Translator) {
	rules := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{"nocontrolchars", validateNoControlChars, "{0} cannot contain control characters"},
		{"notrimmed", validateNotTrimmed, "{0} cannot have leading or trailing whitespace"},
		{"otpsecret", validateOTPSecret, "{0} must be a valid base32 secret"},
		{"otptype", validateOTPType, "{0} must be hotp or totp"},
	}

	for _, rule := range rules {
		tag, message := rule.tag, rule.message
		if err := validate.RegisterValidation(tag, rule.fn); err != nil {
			log.Fatal(err)
		}
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			log.Fatal(err)
		}
	}
}

// validateNoControlChars ensures string contains no control characters
func validateNoControlChars(fl validator.FieldLevel) bool {
	str := fl.Field().String()

	for _, r := range str {
		// Allow common whitespace characters but reject other control chars
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}

	return true
}

// validateNotTrimmed ensures string has no leading/trailing whitespace
func validateNotTrimmed(fl validator.FieldLevel) bool {
	str := fl.Field().String()
	return str == strings.TrimSpace(str)
}

// validateOTPSecret ensures the string decodes as a Base32 secret
func validateOTPSecret(fl validator.FieldLevel) bool {
	str := fl.Field().String()
	if str == "" {
		return true // Let required validation handle empty strings
	}

	_, err := oath.DecodeSecret(str)
	return err == nil
}

// validateOTPType accepts hotp or totp in any case
func validateOTPType(fl validator.FieldLevel) bool {
	str := fl.Field().String()
	if str == "" {
		return true // Let required validation handle empty strings
	}

	_, err := oath.ParseType(str)
	return err == nil
}
