package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern escapes LIKE metacharacters in s and wraps it for a substring
// match. The default escape character is backslash.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
