package obsidian

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/obsidian-mcp/internal/apperr"
)

// Valid values for enum-typed request fields.
var (
	Periods         = []string{"daily", "weekly", "monthly", "quarterly", "yearly"}
	PeriodicTypes   = []string{PeriodicContent, PeriodicMetadata}
	PatchOperations = []string{"append", "prepend", "replace"}
	PatchTargets    = []string{"heading", "block", "frontmatter"}
)

// Periodic note response types.
const (
	PeriodicContent  = "content"
	PeriodicMetadata = "metadata"
)

// PatchRequest inserts Content relative to a heading, block reference or frontmatter field.
type PatchRequest struct {
	Operation  string `json:"operation"`
	TargetType string `json:"target_type"`
	Target     string `json:"target"`
	Content    string `json:"content"`
}

// Validate checks the enum fields and that a target is named.
func (r PatchRequest) Validate() error {
	return asValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Operation, oneOf("operation", r.Operation, PatchOperations)...),
		validation.Field(&r.TargetType, oneOf("target_type", r.TargetType, PatchTargets)...),
		validation.Field(&r.Target, validation.Required.Error("target is required")),
	))
}

// PeriodicNoteQuery selects the current note of a period.
type PeriodicNoteQuery struct {
	Period string `json:"period"`
	Type   string `json:"type"`
}

func (q PeriodicNoteQuery) Validate() error {
	return asValidationError(validation.ValidateStruct(&q,
		validation.Field(&q.Period, oneOf("period", q.Period, Periods)...),
		validation.Field(&q.Type, oneOf("type", q.Type, PeriodicTypes)...),
	))
}

// RecentPeriodicNotesQuery selects the most recent notes of a period.
type RecentPeriodicNotesQuery struct {
	Period         string `json:"period"`
	Limit          int    `json:"limit"`
	IncludeContent bool   `json:"include_content"`
}

func (q RecentPeriodicNotesQuery) Validate() error {
	return asValidationError(validation.ValidateStruct(&q,
		validation.Field(&q.Period, oneOf("period", q.Period, Periods)...),
		validation.Field(&q.Limit, positive("limit", q.Limit)...),
	))
}

// RecentChangesQuery selects files modified within the trailing Days window.
type RecentChangesQuery struct {
	Limit int `json:"limit"`
	Days  int `json:"days"`
}

func (q RecentChangesQuery) Validate() error {
	return asValidationError(validation.ValidateStruct(&q,
		validation.Field(&q.Limit, positive("limit", q.Limit)...),
		validation.Field(&q.Days, positive("days", q.Days)...),
	))
}

// dql renders the Dataview query listing recently modified files.
func (q RecentChangesQuery) dql() string {
	return strings.Join([]string{
		"TABLE file.mtime",
		fmt.Sprintf("WHERE file.mtime >= date(today) - dur(%d days)", q.Days),
		"SORT file.mtime DESC",
		fmt.Sprintf("LIMIT %d", q.Limit),
	}, "\n")
}

func oneOf(field, value string, valid []string) []validation.Rule {
	msg := fmt.Sprintf("Invalid %s: %s. Must be one of: %s", field, value, strings.Join(valid, ", "))
	elems := make([]any, len(valid))
	for i, v := range valid {
		elems[i] = v
	}
	return []validation.Rule{validation.Required.Error(msg), validation.In(elems...).Error(msg)}
}

func positive(field string, value int) []validation.Rule {
	msg := fmt.Sprintf("Invalid %s: %d. Must be a positive integer", field, value)
	return []validation.Rule{validation.Required.Error(msg), validation.Min(1).Error(msg)}
}

// asValidationError flattens ozzo field errors into a single apperr.ValidationError,
// reporting the first failing field in name order.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &apperr.ValidationError{Message: err.Error()}
	}
	fields := make([]string, 0, len(errs))
	for f, e := range errs {
		if e != nil {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &apperr.ValidationError{Field: fields[0], Message: errs[fields[0]].Error()}
}
