package greeting

import (
	"github.com/janisto/locale-playground/internal/platform/timeutil"
)

// User is the simulated logged-in user.
type User struct {
	ID   int    `json:"id"   doc:"User id"      example:"1"`
	Name string `json:"name" doc:"Display name" example:"Balou"`
}

// Data is the resolved display context together with the translated page strings.
type Data struct {
	Locale         string        `json:"locale"         doc:"Resolved locale"                  example:"fr"`
	LocaleSource   string        `json:"localeSource"   doc:"Step that produced the locale"   example:"user" enum:"param,user,accept-language,default"`
	Timezone       string        `json:"timezone"       doc:"Resolved IANA timezone"           example:"Europe/Paris"`
	TimezoneSource string        `json:"timezoneSource" doc:"Step that produced the timezone" example:"user" enum:"param,user,default"`
	User           *User         `json:"user,omitempty" doc:"Logged-in user, absent when anonymous"`
	Title          string        `json:"title"          doc:"Page title"                       example:"Bienvenue chez Holberton"`
	Header         string        `json:"header"         doc:"Page header"                      example:"Bonjour monde!"`
	LoginMessage   string        `json:"loginMessage"   doc:"Login status sentence"            example:"Vous êtes connecté en tant que Balou."`
	CurrentTime    string        `json:"currentTime"    doc:"Localized current time sentence"  example:"Nous sommes le 14/07/2024 14:00:00."`
	Now            timeutil.Time `json:"now"            doc:"Current time in the resolved timezone" example:"2024-07-14T14:00:00.000+02:00"`
}
