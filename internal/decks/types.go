package decks

// Deck is a named card pack as it is stored on disk
type Deck struct {
	// Code is the short unique identifier used to select the deck
	Code string `json:"code"`

	// Name is the human readable deck name
	Name string `json:"name"`

	// Calls are the question cards
	Calls []CallData `json:"calls"`

	// Responses are the answer cards
	Responses []ResponseData `json:"responses"`
}

// CallData is a question card before normalisation
type CallData struct {
	ID           string   `json:"id"`
	Text         []string `json:"text"`
	NumResponses int      `json:"numResponses"`
}

// ResponseData is an answer card before normalisation
type ResponseData struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	DisplayText string `json:"displayText"`
}

// Groups maps a group tag (prefixed with ~) to deck codes or other group tags
type Groups map[string][]string

// Selection is the outcome of resolving deck selectors
type Selection struct {
	// Codes are the deck codes to load, in selection order
	Codes []string

	// Unknown are selectors that matched no deck or group
	Unknown []string
}
