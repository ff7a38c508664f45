package constants

import "time"

const (
	// Environment overrides
	EnvStore        = "VITALFLOW_STORE"
	EnvIDScheme     = "VITALFLOW_ID_SCHEME"
	EnvTimezone     = "VITALFLOW_TIMEZONE"
	EnvDebug        = "VITALFLOW_DEBUG"
	EnvCoachModel   = "VITALFLOW_COACH_MODEL"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvDotenvPath   = "VITALFLOW_DOTENV"

	// Default profile values
	DefaultProfileName        = "User"
	DefaultTheme              = "vitalBlue"
	DefaultLanguage           = "en"
	DefaultSubscriptionStatus = "free"

	// Default runtime settings
	DefaultTimezone     = "Local"
	DefaultIDScheme     = IDSchemeSequence
	DefaultCoachModel   = "gemini-2.5-flash"
	DefaultCoachTimeout = 30 * time.Second
	DefaultDotenvFile   = ".env"

	// Coach context sizes
	CoachRecentEntries = 5
	CoachWeeklyDays    = 7
)
