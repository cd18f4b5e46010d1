package greeting

// GetInput carries the values the display context is resolved from.
type GetInput struct {
	LoginAs        string `query:"login_as"       doc:"Id of the simulated logged-in user"         example:"1"`
	Locale         string `query:"locale"         doc:"Locale override, ignored when unsupported"   example:"fr"`
	Timezone       string `query:"timezone"       doc:"IANA timezone override, ignored when unknown" example:"Europe/Paris"`
	AcceptLanguage string `header:"Accept-Language" doc:"Weighted language preferences"            example:"fr-CA,en;q=0.5"`
}
