package greeting

// GetOutput for GET /greeting
type GetOutput struct {
	ContentLanguage string `header:"Content-Language" doc:"Resolved locale"`
	Body            Data
}
