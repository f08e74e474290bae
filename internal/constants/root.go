package constants

import "time"

// FriendStatus represents the state of a friendship edge
type FriendStatus string

// XPSource identifies what kind of action earned an XP transaction
type XPSource string

// BadgeType identifies a one-time unlockable achievement
type BadgeType string

// Metric identifies a daily progress counter
type Metric string

// Emotion represents the mascot's reaction tier to daily progress
type Emotion string

const (
	AppName            = "vigor"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/vigor/vigor.db"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DebounceWindow is the quiet period before a burst of local counter
	// updates is persisted remotely.
	DebounceWindow = 500 * time.Millisecond

	// ChangeChannel is the postgres NOTIFY channel carrying remote change events
	ChangeChannel = "vigor_changes"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "vigor-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.vigorfit.vigor"

	// Friend Status constants
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
	FriendRejected FriendStatus = "rejected"

	// XP Source constants
	XPSourceWorkout   XPSource = "workout"
	XPSourceHabit     XPSource = "habit"
	XPSourceChallenge XPSource = "challenge"
	XPSourceLogin     XPSource = "login"

	// Badge Type constants
	BadgeFirstWorkout  BadgeType = "first_workout"
	BadgeWeekStreak    BadgeType = "week_streak"
	BadgeHydrationHero BadgeType = "hydration_hero"
	BadgeEarlyBird     BadgeType = "early_bird"
	BadgeSocial        BadgeType = "social_butterfly"

	// Metric constants
	MetricSteps         Metric = "steps"
	MetricWater         Metric = "water"
	MetricActiveMinutes Metric = "active_minutes"

	// Emotion tiers, ordered best to worst
	EmotionCelebrating Emotion = "celebrating"
	EmotionProud       Emotion = "proud"
	EmotionHappy       Emotion = "happy"
	EmotionMotivated   Emotion = "motivated"
	EmotionNeutral     Emotion = "neutral"

	// Default per-metric daily goals for lazily created progress rows
	DefaultStepsGoal         = 10000
	DefaultWaterGoalML       = 2000
	DefaultActiveMinutesGoal = 30

	// Reward amounts
	XPPerHabitCompletion = 10
	XPPerLogin           = 5
)

// LevelThresholds maps the minimum total XP required to reach each level.
// Index i holds the XP floor of level i+1. The table is strictly increasing,
// so LevelFromXP is a monotone step function of total XP.
var LevelThresholds = []int{0, 100, 250, 500, 1000, 1750, 2750, 4000, 5500, 7500, 10000}
