package sqlitedb

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in term so it matches literally.
// Queries using it must declare ESCAPE '\'.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
