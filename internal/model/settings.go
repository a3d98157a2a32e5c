package model

import "github.com/shopspring/decimal"

// SettingsTab names one tab of the settings panel; it is also the path
// segment under /settings.
type SettingsTab string

const (
	TabSMTP       SettingsTab = "smtp"
	TabStripe     SettingsTab = "stripe"
	TabPrivacy    SettingsTab = "privacy"
	TabInvitation SettingsTab = "invitation"
)

// SettingsTabs lists the tabs in display order.
var SettingsTabs = []SettingsTab{TabSMTP, TabStripe, TabPrivacy, TabInvitation}

// String returns the string representation of the tab.
func (t SettingsTab) String() string {
	return string(t)
}

// IsValid checks whether the tab is a known value.
func (t SettingsTab) IsValid() bool {
	switch t {
	case TabSMTP, TabStripe, TabPrivacy, TabInvitation:
		return true
	}
	return false
}

// SMTPSettings configures outgoing mail.
type SMTPSettings struct {
	Host       string `json:"host" form:"host" label:"Host" validate:"required"`
	Port       int    `json:"port" form:"port" label:"Port" validate:"gte=1,lte=65535"`
	Username   string `json:"username,omitempty" form:"username" label:"Username"`
	Password   string `json:"password,omitempty" form:"password" label:"Password"`
	FromEmail  string `json:"fromEmail" form:"fromEmail" label:"From Email" validate:"required,email"`
	FromName   string `json:"fromName,omitempty" form:"fromName" label:"From Name"`
	Encryption string `json:"encryption" form:"encryption" label:"Encryption" validate:"omitempty,oneof=none ssl tls"`
}

// StripeSettings configures payment processing.
type StripeSettings struct {
	PublishableKey string `json:"publishableKey" form:"publishableKey" label:"Publishable Key" validate:"required,startswith=pk_"`
	SecretKey      string `json:"secretKey" form:"secretKey" label:"Secret Key" validate:"required,startswith=sk_"`
	WebhookSecret  string `json:"webhookSecret,omitempty" form:"webhookSecret" label:"Webhook Secret" validate:"omitempty,startswith=whsec_"`
	Currency       string `json:"currency" form:"currency" label:"Currency" validate:"required,len=3"`
	Mode           string `json:"mode" form:"mode" label:"Mode" validate:"omitempty,oneof=test live"`
}

// PrivacySettings holds the published privacy policy.
type PrivacySettings struct {
	Content string `json:"content" form:"content" label:"Content" validate:"required"`
	Version string `json:"version,omitempty" form:"version" label:"Version"`
}

// InvitationSettings configures the referral program.
type InvitationSettings struct {
	Enabled           bool            `json:"enabled" form:"enabled" label:"Enabled"`
	ReferrerReward    decimal.Decimal `json:"referrerReward" form:"referrerReward" label:"Referrer Reward" validate:"gte=0"`
	InviteeReward     decimal.Decimal `json:"inviteeReward" form:"inviteeReward" label:"Invitee Reward" validate:"gte=0"`
	MaxInvitesPerUser int             `json:"maxInvitesPerUser" form:"maxInvitesPerUser" label:"Max Invites Per User" validate:"gte=0"`
	CodeLength        int             `json:"codeLength" form:"codeLength" label:"Code Length" validate:"gte=4,lte=32"`
	ExpiryDays        int             `json:"expiryDays" form:"expiryDays" label:"Expiry Days" validate:"gte=0"`
}
