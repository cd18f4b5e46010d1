package users

// User is a simulated user together with how the resolver treats its
// preferences.
type User struct {
	ID              int    `json:"id"                 doc:"Value to pass as login_as" example:"1"`
	Name            string `json:"name"               doc:"Display name"              example:"Balou"`
	Locale          string `json:"locale,omitempty"   doc:"Profile locale"            example:"fr"`
	Timezone        string `json:"timezone,omitempty" doc:"Profile timezone"          example:"Europe/Paris"`
	LocaleSupported bool   `json:"localeSupported"    doc:"Whether the profile locale is used for resolution" example:"true"`
	TimezoneValid   bool   `json:"timezoneValid"      doc:"Whether the profile timezone is a known IANA zone" example:"true"`
}

// ListData is the response body containing paginated users.
type ListData struct {
	Users []User `json:"users" doc:"List of users"`
	Total int    `json:"total" doc:"Total count of users matching the filter" example:"4"`
}
