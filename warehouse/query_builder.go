package warehouse

import (
	"fmt"
	"strconv"
	"strings"
)

type QueryBuilder struct {
	strings.Builder
}

func (builder *QueryBuilder) WriteInt(i int) {
	builder.WriteString(strconv.Itoa(i))
}

// Must only be called after calling ValidateIdentifier/ValidateIdentifiers on the given identifier.
func (builder *QueryBuilder) WriteIdentifier(identifier string) {
	builder.WriteRune('`')
	builder.WriteString(identifier)
	builder.WriteRune('`')
}

// Writes a database-qualified table reference. Both identifiers must have
// been validated first.
func (builder *QueryBuilder) WriteTable(database string, table string) {
	builder.WriteIdentifier(database)
	builder.WriteRune('.')
	builder.WriteIdentifier(table)
}

func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("identifier is empty")
	}
	if strings.ContainsRune(identifier, '`') {
		return fmt.Errorf("'%s' contains `, which is incompatible with database", identifier)
	}

	return nil
}

func ValidateIdentifiers(identifiers ...string) error {
	for _, identifier := range identifiers {
		if err := ValidateIdentifier(identifier); err != nil {
			return err
		}
	}

	return nil
}
