package entity

// Citation is one numbered reference inside a query's answer. Numbers are
// unique per query except when the engine itself repeats a marker.
type Citation struct {
	Id             uint
	QueryId        uint
	CitationNumber int
	SourceId       *string
	SourceTitle    *string
	SourceAuthors  *string
	SourceDate     *string
	CitedText      *string
	StartChar      *int
	EndChar        *int
}
