// Package api provides validation utilities for API request handling.
package api

import (
	"fmt"
	"math"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-retrieval-engine/config"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateIndexName validates an index name parameter
func ValidateIndexName(indexName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if indexName == "" {
		result.AddError("indexName", "Index name is required")
		return result
	}

	if strings.TrimSpace(indexName) != indexName {
		result.AddError("indexName", "Index name cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateIndexSettings applies defaults to settings and validates them.
func ValidateIndexSettings(settings *config.IndexSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Index settings are required")
		return result
	}

	settings.ApplyDefaults()
	for _, problem := range settings.Validate() {
		result.AddError("settings", problem)
	}

	return result
}

// ValidateDocuments checks that every document has a unique, non-empty ID
// and non-negative term counts.
func ValidateDocuments(docs []DocumentRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	seen := make(map[string]struct{}, len(docs))
	for i, doc := range docs {
		field := fmt.Sprintf("documents[%d].id", i)
		if strings.TrimSpace(doc.ID) == "" {
			result.AddError(field, "Document ID cannot be empty or whitespace-only")
			continue
		}
		if _, dup := seen[doc.ID]; dup {
			result.AddError(field, "Duplicate document ID '"+doc.ID+"'")
			continue
		}
		seen[doc.ID] = struct{}{}
		validateTerms(result, fmt.Sprintf("documents[%d].terms", i), doc.Terms)
	}

	return result
}

// ValidateQuery checks that a query carries terms or text, not both.
func ValidateQuery(field string, query QueryRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch {
	case len(query.Terms) == 0 && strings.TrimSpace(query.Text) == "":
		result.AddError(field, "Either 'terms' or 'text' is required")
	case len(query.Terms) > 0 && query.Text != "":
		result.AddError(field, "Provide either 'terms' or 'text', not both")
	}
	validateTerms(result, field+".terms", query.Terms)

	return result
}

// ValidateTopK rejects negative result sizes.
func ValidateTopK(result *ValidationResult, topK int) {
	if topK < 0 {
		result.AddError("top_k", "top_k cannot be negative")
	}
}

// ValidateWeights rejects negative or non-finite Rocchio weights.
func ValidateWeights(result *ValidationResult, weights WeightsRequest) {
	for _, w := range []struct {
		name  string
		value *float64
	}{
		{"alpha", weights.Alpha},
		{"beta", weights.Beta},
		{"gamma", weights.Gamma},
	} {
		if w.value == nil {
			continue
		}
		if *w.value < 0 || math.IsNaN(*w.value) || math.IsInf(*w.value, 0) {
			result.AddError(w.name, "must be a finite, non-negative number")
		}
	}
}

func validateTerms(result *ValidationResult, field string, terms map[string]int) {
	for term, count := range terms {
		if term == "" {
			result.AddError(field, "Term cannot be empty")
		}
		if count < 0 {
			result.AddError(field, "Count of term '"+term+"' cannot be negative")
		}
	}
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}

// merge appends the errors of other to vr.
func (vr *ValidationResult) merge(other *ValidationResult) {
	for _, err := range other.Errors {
		vr.AddError(err.Field, err.Message)
	}
}
