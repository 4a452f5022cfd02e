package entity

// PlatformSettings are admin-editable knobs stored as a single JSON document.
type PlatformSettings struct {
	SiteName        string `json:"site_name" binding:"required,max=120"`
	SiteDescription string `json:"site_description" binding:"max=500"`
	ContactEmail    string `json:"contact_email" binding:"omitempty,email"`
	SupportPhone    string `json:"support_phone" binding:"max=32"`

	AllowUserRegistration    bool `json:"allow_user_registration"`
	RequireEmailVerification bool `json:"require_email_verification"`
	AllowGuestAccess         bool `json:"allow_guest_access"`
	MaxProjectsPerUser       int  `json:"max_projects_per_user" binding:"gte=0,lte=1000"`

	SessionTimeout         int  `json:"session_timeout" binding:"gte=0,lte=10080"` // minutes
	RequireStrongPasswords bool `json:"require_strong_passwords"`
	EnableTwoFactorAuth    bool `json:"enable_two_factor_auth"`
	MaxLoginAttempts       int  `json:"max_login_attempts" binding:"gte=0,lte=100"`

	EmailNotifications bool `json:"email_notifications"`
	SMSNotifications   bool `json:"sms_notifications"`
	ProjectUpdates     bool `json:"project_updates"`
	SystemAlerts       bool `json:"system_alerts"`

	MaintenanceMode bool   `json:"maintenance_mode"`
	DebugMode       bool   `json:"debug_mode"`
	AutoBackup      bool   `json:"auto_backup"`
	BackupFrequency string `json:"backup_frequency" binding:"oneof=daily weekly monthly"`

	DefaultLanguage  string `json:"default_language" binding:"oneof=fa en"`
	AllowComments    bool   `json:"allow_comments"`
	ModerateComments bool   `json:"moderate_comments"`
	MaxFileSize      int    `json:"max_file_size" binding:"gte=1,lte=100"` // megabytes
}

// DefaultSettings returns the factory configuration.
func DefaultSettings() PlatformSettings {
	return PlatformSettings{
		SiteName:        "Academic Project Platform",
		SiteDescription: "Connecting industry and academia",
		ContactEmail:    "admin@university-project.ir",
		SupportPhone:    "021-12345678",

		AllowUserRegistration:    true,
		RequireEmailVerification: true,
		AllowGuestAccess:         false,
		MaxProjectsPerUser:       5,

		SessionTimeout:         30,
		RequireStrongPasswords: true,
		EnableTwoFactorAuth:    false,
		MaxLoginAttempts:       5,

		EmailNotifications: true,
		SMSNotifications:   false,
		ProjectUpdates:     true,
		SystemAlerts:       true,

		MaintenanceMode: false,
		DebugMode:       false,
		AutoBackup:      true,
		BackupFrequency: "daily",

		DefaultLanguage:  "fa",
		AllowComments:    true,
		ModerateComments: true,
		MaxFileSize:      10,
	}
}

// MaxFileBytes converts MaxFileSize to bytes.
func (s PlatformSettings) MaxFileBytes() int64 {
	return int64(s.MaxFileSize) << 20
}
