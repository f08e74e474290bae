package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vigorfit/vigor/internal/challenges"
	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/gamify"
	"github.com/vigorfit/vigor/internal/habits"
	"github.com/vigorfit/vigor/internal/identity"
	"github.com/vigorfit/vigor/internal/logger"
	"github.com/vigorfit/vigor/internal/mirror"
	"github.com/vigorfit/vigor/internal/notifier"
	"github.com/vigorfit/vigor/internal/progress"
	"github.com/vigorfit/vigor/internal/remote"
	"github.com/vigorfit/vigor/internal/social"
)

// Output styles shared by the feature commands.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	SubtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type Context struct {
	Remote   remote.Store
	ConnStr  string // remote connection string, empty until login
	Mirror   *mirror.Store
	Session  *identity.Session
	Notifier *notifier.Notifier
}

// UserID returns the resolved user, or an error telling the user to log in.
func (c *Context) UserID() (string, error) {
	id, ok := c.Session.CurrentUserID()
	if !ok {
		return "", fmt.Errorf("not logged in, run 'vigor login' first")
	}
	return id, nil
}

// Notify sends a desktop toast, fire and forget. Delivery failure is never
// the command's problem.
func (c *Context) Notify(text string) {
	if err := c.Notifier.Notify(text); err != nil {
		logger.Debug("Notification not delivered", "error", err)
	}
}

// Today returns the current calendar day.
func (c *Context) Today() string {
	return time.Now().Format(constants.DateFormat)
}

// GamifyService builds the gamification service for the current user.
func (c *Context) GamifyService() (*gamify.Service, error) {
	id, err := c.UserID()
	if err != nil {
		return nil, err
	}
	return gamify.NewService(id, c.Remote, c.Mirror, c.Notify), nil
}

// ProgressService builds the daily-progress service for the current user.
func (c *Context) ProgressService() (*progress.Service, error) {
	id, err := c.UserID()
	if err != nil {
		return nil, err
	}
	return progress.NewService(id, c.Remote, c.Mirror, constants.DebounceWindow, c.Notify), nil
}

// SocialService builds the friendship service for the current user. Badge
// awards route through a short-lived gamification service.
func (c *Context) SocialService() (*social.Service, error) {
	id, err := c.UserID()
	if err != nil {
		return nil, err
	}
	g := gamify.NewService(id, c.Remote, c.Mirror, c.Notify)
	award := func(badge constants.BadgeType) {
		g.AwardBadge(badge)
	}
	return social.NewService(id, c.Remote, c.Mirror, c.Notify, award), nil
}

// HabitService builds the habit service for the current user, with habit
// completions paying XP through the gamification queue.
func (c *Context) HabitService() (*habits.Service, *gamify.Service, error) {
	id, err := c.UserID()
	if err != nil {
		return nil, nil, err
	}
	g := gamify.NewService(id, c.Remote, c.Mirror, c.Notify)
	reward := func(amount int, source constants.XPSource, description string) {
		g.AddXP(amount, source, description)
	}
	return habits.NewService(id, c.Remote, c.Mirror, reward), g, nil
}

// ChallengeService builds the challenge service for the current user.
func (c *Context) ChallengeService() (*challenges.Service, *gamify.Service, error) {
	id, err := c.UserID()
	if err != nil {
		return nil, nil, err
	}
	g := gamify.NewService(id, c.Remote, c.Mirror, c.Notify)
	reward := func(amount int, source constants.XPSource, description string) {
		g.AddXP(amount, source, description)
	}
	return challenges.NewService(id, c.Remote, c.Mirror, reward, c.Notify), g, nil
}
