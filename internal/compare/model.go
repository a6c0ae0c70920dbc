package compare

// Result is the outcome of a summary based comparison between a session's
// original and updated documents. Stage failures degrade into Warning and
// placeholder text instead of failing the request.
type Result struct {
	Identical       bool
	Comparison      string
	SummaryOriginal string
	SummaryUpdated  string
	Warning         string
}
