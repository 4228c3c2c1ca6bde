package settings

import "github.com/jrsteele09/go-social-frontend/internal/utils"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type DirectMessages string

const (
	DirectMessagesEveryone  DirectMessages = "everyone"
	DirectMessagesFollowing DirectMessages = "following"
	DirectMessagesNobody    DirectMessages = "nobody"
)

type NotificationPreferences struct {
	Likes    bool `json:"likes"`
	Comments bool `json:"comments"`
	Follows  bool `json:"follows"`
	Messages bool `json:"messages"`
}

type PrivacySettings struct {
	AccountVisibility   Visibility     `json:"accountVisibility"`
	AllowDirectMessages DirectMessages `json:"allowDirectMessages"`
}

// UserSettings mirrors the backend record. Either blob is null until the user
// changes something.
type UserSettings struct {
	ID                      int64                    `json:"id"`
	NotificationPreferences *NotificationPreferences `json:"notificationPreferences"`
	PrivacySettings         *PrivacySettings         `json:"privacySettings"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Likes: true, Comments: true, Follows: true, Messages: true}
}

func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{AccountVisibility: VisibilityPublic, AllowDirectMessages: DirectMessagesEveryone}
}

type NotificationPreferencesPatch struct {
	Likes    *bool `json:"likes,omitempty"`
	Comments *bool `json:"comments,omitempty"`
	Follows  *bool `json:"follows,omitempty"`
	Messages *bool `json:"messages,omitempty"`
}

type PrivacySettingsPatch struct {
	AccountVisibility   *Visibility     `json:"accountVisibility,omitempty"`
	AllowDirectMessages *DirectMessages `json:"allowDirectMessages,omitempty"`
}

// UpdateRequest is a partial update; nil fields are left alone.
type UpdateRequest struct {
	NotificationPreferences *NotificationPreferencesPatch `json:"notificationPreferences,omitempty"`
	PrivacySettings         *PrivacySettingsPatch         `json:"privacySettings,omitempty"`
}

// Apply returns s with patch applied, the way the backend will store it.
func (s UserSettings) Apply(patch UpdateRequest) UserSettings {
	out := UserSettings{ID: s.ID, NotificationPreferences: s.NotificationPreferences, PrivacySettings: s.PrivacySettings}

	if p := patch.NotificationPreferences; p != nil {
		cur := utils.ValueOr(s.NotificationPreferences, DefaultNotificationPreferences())
		cur.Likes = utils.ValueOr(p.Likes, cur.Likes)
		cur.Comments = utils.ValueOr(p.Comments, cur.Comments)
		cur.Follows = utils.ValueOr(p.Follows, cur.Follows)
		cur.Messages = utils.ValueOr(p.Messages, cur.Messages)
		out.NotificationPreferences = &cur
	}
	if p := patch.PrivacySettings; p != nil {
		cur := utils.ValueOr(s.PrivacySettings, DefaultPrivacySettings())
		cur.AccountVisibility = utils.ValueOr(p.AccountVisibility, cur.AccountVisibility)
		cur.AllowDirectMessages = utils.ValueOr(p.AllowDirectMessages, cur.AllowDirectMessages)
		out.PrivacySettings = &cur
	}
	return out
}

func (p PrivacySettingsPatch) Validate() error {
	if v := p.AccountVisibility; v != nil && *v != VisibilityPublic && *v != VisibilityPrivate {
		return errInvalid("accountVisibility", string(*v))
	}
	if d := p.AllowDirectMessages; d != nil {
		switch *d {
		case DirectMessagesEveryone, DirectMessagesFollowing, DirectMessagesNobody:
		default:
			return errInvalid("allowDirectMessages", string(*d))
		}
	}
	return nil
}
