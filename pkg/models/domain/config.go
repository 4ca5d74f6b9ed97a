package domain

import "fmt"

type SourceType string

const (
	SourceTypeCSV   SourceType = "csv"
	SourceTypeExcel SourceType = "xlsx"
	SourceTypeMySQL SourceType = "mysql"
)

// SourceProfile identifies one configured transaction source.
type SourceProfile struct {
	Name string
	Type SourceType
}

func (p SourceProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Type, p.Name)
}
