package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type ratingPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review    string `json:"review"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeProduct bool, includeRating bool) bool {
			reqMap := make(map[string]interface{})

			if includeProduct {
				reqMap["productId"] = "6f1f54ff-33d7-4826-a542-0a2e8e81f842"
			}
			if includeRating {
				reqMap["rating"] = 4
			}

			allFieldsPresent := includeProduct && includeRating

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload ratingPayload
			err := DecodeAndValidate(req, &payload)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func(rating int) bool {
			reqMap := map[string]interface{}{
				"productId": "6f1f54ff-33d7-4826-a542-0a2e8e81f842",
				"rating":    rating,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload ratingPayload
			err := DecodeAndValidate(req, &payload)

			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)
			if len(validationErrors) == 0 {
				return false
			}

			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
		gen.IntRange(6, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RatingRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rating outside 1..5 is rejected", prop.ForAll(
		func(rating int) bool {
			reqMap := map[string]interface{}{
				"productId": "6f1f54ff-33d7-4826-a542-0a2e8e81f842",
				"rating":    rating,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload ratingPayload
			err := DecodeAndValidate(req, &payload)

			if rating >= 1 && rating <= 5 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMalformedJSONRejected(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var payload ratingPayload
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Error("expected decode error for malformed JSON")
	}
}
