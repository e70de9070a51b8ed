package models

// Query is a single provider search request.
type Query struct {
	Text       string
	MaxResults int
	Depth      string   // basic | advanced, provider may ignore
	Country    string   // locale hint, provider may ignore
	Days       int      // restrict to the last N days, 0 = no restriction
	Domains    []string // allow-list, empty = unrestricted
}

// Result is one normalized search hit. Results live only inside the
// request that produced them.
type Result struct {
	Title         string
	URL           string
	Content       string
	PublishedDate string
}
