package reconcile

import (
	"sort"

	"campusctl/core/controller"
)

// readonlyKeys are controller-owned fields that never participate in diffing
// and are never sent back on update.
var readonlyKeys = map[string]struct{}{
	"id":          {},
	"uuid":        {},
	"createTime":  {},
	"create_time": {},
	"createdAt":   {},
	"updateTime":  {},
	"update_time": {},
	"updatedAt":   {},
}

// kindSchema describes which fields are valid for a kind and which of them
// are mandatory at creation time.
type kindSchema struct {
	fields         map[string]struct{}
	createRequired []string
}

var schemas = map[controller.Kind]kindSchema{
	controller.KindSite: {
		fields: fieldSet(
			"name", "description", "type", "pattern", "southAccName",
			"latitude", "longitude", "longtitude",
			"address", "city", "country", "postcode",
			"contact", "email", "phone",
			"tag", "siteTag", "isolated", "organizationName",
		),
		createRequired: []string{"name", "type"},
	},
	controller.KindDevice: {
		fields: fieldSet(
			"name", "description", "esn", "mac", "siteId", "siteName",
			"type", "model", "mgmtIp", "role",
		),
		createRequired: []string{"name"},
	},
}

func fieldSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Validate checks a declared unit against its kind schema before any network
// call: unknown kinds, unknown property keys, a missing object name and a
// name used as a selector term all abort the unit immediately. Selecting on
// name would break rename convergence: after the first rename the selector
// matches nothing and a rerun would create a duplicate.
func Validate(u Unit) error {
	schema, ok := schemas[u.Kind]
	if !ok {
		return &ValidationError{Kind: u.Kind, Reason: "unknown object kind"}
	}

	if u.Name() == "" {
		return &ValidationError{Kind: u.Kind, Reason: "object.name is required for all operations"}
	}

	if unknown := unknownKeys(schema.fields, map[string]any(u.Object), false); len(unknown) > 0 {
		return &ValidationError{Kind: u.Kind, Reason: "unknown object properties", Fields: unknown}
	}
	if _, ok := u.Selector["name"]; ok {
		return &ValidationError{Kind: u.Kind, Reason: "selector must not contain name; select on other fields and declare the name under object", Fields: []string{"name"}}
	}
	if unknown := unknownKeys(schema.fields, map[string]any(u.Selector), true); len(unknown) > 0 {
		return &ValidationError{Kind: u.Kind, Reason: "unknown selector properties", Fields: unknown}
	}
	return nil
}

// unknownKeys returns the keys of m not present in the schema field set,
// sorted for stable error messages. Selectors may additionally address the
// opaque id directly.
func unknownKeys(fields map[string]struct{}, m map[string]any, allowID bool) []string {
	var unknown []string
	for k := range m {
		if allowID {
			if _, readonly := readonlyKeys[k]; readonly {
				continue
			}
		}
		if _, ok := fields[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// createRequiredMissing returns create-required fields absent from the
// desired body, sorted.
func createRequiredMissing(kind controller.Kind, desired Properties) []string {
	schema, ok := schemas[kind]
	if !ok {
		return nil
	}
	var missing []string
	for _, field := range schema.createRequired {
		if _, ok := desired[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}
