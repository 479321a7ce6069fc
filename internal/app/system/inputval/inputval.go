// Package inputval validates user-supplied input at the gateway boundary.
//
// Individual predicates (IsValidEmail, IsValidObjectID, ...) are exported
// for one-off checks; Validate runs declarative struct-tag rules over a
// payload and collects human-readable field errors.
package inputval

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidEmail reports whether s is a plausible RFC 5322 address.
// Display-name forms ("User <user@example.com>") are rejected; the
// stored value must be a bare address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// FieldError is one validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures for a payload.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every failure message joined with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Validate runs the `validate` struct-tag rules over every string field
// of v. Supported rules:
//
//	required            non-empty after trimming
//	max=N               at most N characters
//	email               IsValidEmail
//	httpurl             IsValidHTTPURL
//	objectid            IsValidObjectID
//	oneof=A B C         exact match against the listed values
//
// The `label` tag supplies the human-readable field name used in messages.
// Rules other than required are skipped for empty values, so optional
// fields validate only when present.
func Validate(v any) *Result {
	result := &Result{}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return result
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.Type.Kind() != reflect.String {
			continue
		}
		rules := field.Tag.Get("validate")
		if rules == "" {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := strings.TrimSpace(rv.Field(i).String())

		for _, rule := range strings.Split(rules, ",") {
			rule = strings.TrimSpace(rule)
			switch {
			case rule == "required":
				if value == "" {
					result.add(field.Name, label+" is required.")
				}
			case strings.HasPrefix(rule, "max="):
				n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
				if err == nil && len(value) > n {
					result.add(field.Name, fmt.Sprintf("%s must be at most %d characters.", label, n))
				}
			case rule == "email":
				if value != "" && !IsValidEmail(value) {
					result.add(field.Name, "A valid email address is required.")
				}
			case rule == "httpurl":
				if value != "" && !IsValidHTTPURL(value) {
					result.add(field.Name, label+" must be a valid http(s) URL.")
				}
			case rule == "objectid":
				if value != "" && !IsValidObjectID(value) {
					result.add(field.Name, label+" must be a valid id.")
				}
			case strings.HasPrefix(rule, "oneof="):
				if value == "" {
					continue
				}
				allowed := strings.Fields(strings.TrimPrefix(rule, "oneof="))
				ok := false
				for _, a := range allowed {
					if value == a {
						ok = true
						break
					}
				}
				if !ok {
					result.add(field.Name, fmt.Sprintf("%s must be one of: %s.", label, strings.Join(allowed, ", ")))
				}
			}
		}
	}

	return result
}
