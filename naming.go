package bootkit

import (
	"strings"
	"unicode"
)

// NamingStrategy derives physical names for entities that do not declare
// them explicitly. Explicit names in a mapping source always win; the
// strategy only fills gaps.
type NamingStrategy interface {
	// TableName derives a table name from a logical entity name.
	TableName(entity string) string

	// ColumnName derives a column name from an attribute name.
	ColumnName(attribute string) string
}

// Built-in naming strategy short names, resolvable through the
// StrategySelector and selectable via SettingNamingStrategy.
const (
	NamingImplicit = "implicit"
	NamingSnake    = "snake"
)

// ImplicitNamingStrategy lowercases logical names and keeps them otherwise
// untouched. It is the default when nothing else is configured.
type ImplicitNamingStrategy struct{}

var _ NamingStrategy = ImplicitNamingStrategy{}

func (ImplicitNamingStrategy) TableName(entity string) string {
	return strings.ToLower(entity)
}

func (ImplicitNamingStrategy) ColumnName(attribute string) string {
	return strings.ToLower(attribute)
}

// SnakeNamingStrategy converts CamelCase logical names to snake_case.
type SnakeNamingStrategy struct{}

var _ NamingStrategy = SnakeNamingStrategy{}

func (SnakeNamingStrategy) TableName(entity string) string {
	return toSnake(entity)
}

func (SnakeNamingStrategy) ColumnName(attribute string) string {
	return toSnake(attribute)
}

// toSnake converts CamelCase and mixedCase to snake_case. Runs of capitals
// ("HTTPCode") stay a single word ("http_code").
func toSnake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func registerBuiltinNamingStrategies(s *StrategySelector) {
	contract := ContractOf[NamingStrategy]()
	s.RegisterDefault(contract, NamingImplicit, func() any { return ImplicitNamingStrategy{} })
	s.RegisterDefault(contract, NamingSnake, func() any { return SnakeNamingStrategy{} })
}
