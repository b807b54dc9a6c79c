package models

// All is the filter sentinel meaning "no constraint".
const All = "all"

// Item levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Catalog kinds
const (
	KindCourses   = "courses"
	KindBooks     = "books"
	KindResources = "resources"
	KindTools     = "tools"
	KindTemplates = "templates"
	KindChecklist = "checklist"
)

// Tracker names
const (
	TrackerSaved     = "saved"
	TrackerEnrolled  = "enrolled"
	TrackerRead      = "read"
	TrackerCompleted = "completed"
)

// Tracker modes
const (
	ModeToggle = "toggle"
	ModeEnroll = "enroll"
)

// Tab flags
const (
	FlagFeatured = "featured"
	FlagPopular  = "popular"
	FlagNew      = "new"
	FlagFree     = "free"
)

// Planner platforms
const (
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)

// Planner post statuses
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// Validation maps
var (
	ValidLevels = map[string]bool{
		LevelBeginner:     true,
		LevelIntermediate: true,
		LevelAdvanced:     true,
	}

	ValidKinds = map[string]bool{
		KindCourses:   true,
		KindBooks:     true,
		KindResources: true,
		KindTools:     true,
		KindTemplates: true,
		KindChecklist: true,
	}

	ValidModes = map[string]bool{
		ModeToggle: true,
		ModeEnroll: true,
	}

	ValidFlags = map[string]bool{
		FlagFeatured: true,
		FlagPopular:  true,
		FlagNew:      true,
		FlagFree:     true,
	}

	ValidFields = map[string]bool{
		"level":  true,
		"type":   true,
		"format": true,
	}

	ValidStatuses = map[string]bool{
		StatusDraft:     true,
		StatusScheduled: true,
		StatusPublished: true,
	}

	ValidPlatforms = map[string]bool{
		PlatformTwitter:   true,
		PlatformLinkedIn:  true,
		PlatformInstagram: true,
		PlatformFacebook:  true,
	}

	LevelNames = map[string]string{
		LevelBeginner:     "Beginner",
		LevelIntermediate: "Intermediate",
		LevelAdvanced:     "Advanced",
	}

	PlatformNames = map[string]string{
		PlatformTwitter:   "Twitter / X",
		PlatformLinkedIn:  "LinkedIn",
		PlatformInstagram: "Instagram",
		PlatformFacebook:  "Facebook",
	}
)

// Validation functions
func IsValidLevel(level string) bool       { return ValidLevels[level] }
func IsValidKind(kind string) bool         { return ValidKinds[kind] }
func IsValidMode(mode string) bool         { return ValidModes[mode] }
func IsValidFlag(flag string) bool         { return ValidFlags[flag] }
func IsValidPlatform(platform string) bool { return ValidPlatforms[platform] }
func IsValidField(field string) bool       { return ValidFields[field] }
func IsValidStatus(status string) bool     { return ValidStatuses[status] }
func GetLevelName(level string) string     { return LevelNames[level] }
func GetPlatformName(p string) string      { return PlatformNames[p] }

// IsAll reports whether a filter value leaves its dimension unconstrained.
func IsAll(v string) bool { return v == "" || v == All }
