// Package field provides typed column handles for building query expressions.
//
// Handles are values: WithTable and WithColumn return copies, so a schema can
// publish its columns as package-level variables and callers can derive
// qualified variants without affecting each other.
//
//	title := field.String{}.WithTable("posts").WithColumn("title")
//	query.Where(title.Contains("engineer"))
package field

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
