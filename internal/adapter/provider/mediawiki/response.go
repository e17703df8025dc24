package mediawiki

// apiResponse is the union of the action=parse and action=query payloads
// requested with formatversion=2.
type apiResponse struct {
	Parse *apiParse `json:"parse"`
	Query *apiQuery `json:"query"`
	Error *apiError `json:"error"`
}

type apiParse struct {
	Title    string `json:"title"`
	Wikitext string `json:"wikitext"`
	Text     string `json:"text"`
}

type apiQuery struct {
	Search          []apiTitle `json:"search"`
	CategoryMembers []apiTitle `json:"categorymembers"`
}

type apiTitle struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
