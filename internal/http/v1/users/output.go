package users

// ListOutput is the response wrapper with pagination Link header.
type ListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListData
}
