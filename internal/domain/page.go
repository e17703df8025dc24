package domain

// WikiPage is a fetched wiki page. Wikitext and HTML are filled according to
// what the caller asked the wiki for.
type WikiPage struct {
	Title    string
	URL      string
	Wikitext string
	HTML     string
}
