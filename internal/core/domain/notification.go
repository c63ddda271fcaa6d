package domain

import "time"

// TemplateKind selects the notification template and the context fields it reads.
type TemplateKind string

const (
	TemplateWelcome                     TemplateKind = "welcome"
	TemplateLoginAlert                  TemplateKind = "login-alert"
	TemplateCounterpartyNewRegistration TemplateKind = "counterparty-new-registration"
	TemplateCounterpartyLoginAlert      TemplateKind = "counterparty-login-alert"
	TemplateMessageReceived             TemplateKind = "message-received"
	TemplateMessageSentConfirmation     TemplateKind = "message-sent-confirmation"
	TemplateActivityCompleted           TemplateKind = "activity-completed"
	TemplateCounterpartyActivityAlert   TemplateKind = "counterparty-activity-alert"
)

// TemplateKinds lists every supported kind.
var TemplateKinds = []TemplateKind{
	TemplateWelcome,
	TemplateLoginAlert,
	TemplateCounterpartyNewRegistration,
	TemplateCounterpartyLoginAlert,
	TemplateMessageReceived,
	TemplateMessageSentConfirmation,
	TemplateActivityCompleted,
	TemplateCounterpartyActivityAlert,
}

// NotificationContext carries the values a template may consume. Each kind
// reads only the fields relevant to it.
type NotificationContext struct {
	RecipientName   string
	SubjectName     string // the other party: sender, registrant, or actor
	SubjectEmail    string
	SubjectRole     Role
	Content         string
	ActivityType    string
	ActivityDetails string
	Timestamp       time.Time
}
