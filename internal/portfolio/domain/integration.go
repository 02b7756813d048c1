package domain

// Integration names. They double as store keys and metric labels so keep
// them stable.
const (
	IntegrationWakaTime = "wakatime"
	IntegrationSpotify  = "spotify"
	IntegrationTwitter  = "twitter"
)
