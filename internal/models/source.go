package models

// Source identifies which statement format a transaction was parsed from.
type Source string

const (
	SourceUnknown       Source = "unknown"
	SourceBankOfAmerica Source = "bank_of_america"
	SourceCSV           Source = "csv"
)

// String returns the source tag as stored.
func (s Source) String() string {
	return string(s)
}
